package watcher

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teamchess/leaguebot/internal/lichess"
	"github.com/teamchess/leaguebot/internal/obslog"
)

// startGuard is the minimum spacing between two real (re)connect attempts
// on one connection. A second attempt inside the guard means the upstream
// is failing fast; the connection gives up its chunk until the next roster
// refresh instead of hot-looping.
const startGuard = 10 * time.Second

// EventHandler consumes one pushed game event. Dispatch is strictly
// sequential per connection: the handler returns before the next stream
// chunk is parsed.
type EventHandler func(event *lichess.GameEvent)

// Conn owns one streaming subscription for a chunk of usernames. At most
// one request is in flight at any time; stream end, transport errors and
// malformed payloads all funnel into a restart, subject to the start guard.
type Conn struct {
	baseURL string
	httpc   *http.Client
	handler EventHandler

	mu        sync.Mutex
	usernames []string
	cancel    context.CancelFunc
	inFlight  bool
	lastStart time.Time
	stopped   bool
}

func NewConn(baseURL string, httpc *http.Client, usernames []string, handler EventHandler) *Conn {
	return &Conn{
		baseURL:   baseURL,
		httpc:     httpc,
		usernames: usernames,
		handler:   handler,
	}
}

// Usernames returns the chunk this connection is subscribed for.
func (c *Conn) Usernames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.usernames))
	copy(out, c.usernames)
	return out
}

// Watch starts the subscription. If a request is already in flight it is
// aborted and Watch returns; the stream's end handler restarts, which keeps
// the one-live-connection invariant and turns "restart while busy" into a
// no-op-then-retry instead of two concurrent streams.
func (c *Conn) Watch() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	if c.inFlight {
		cancel := c.cancel
		c.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return
	}
	now := time.Now()
	if !c.lastStart.IsZero() && now.Sub(c.lastStart) < startGuard {
		n := len(c.usernames)
		c.usernames = nil
		c.mu.Unlock()
		obslog.L().Warn("watch_suppressed",
			zap.Int("usernames", n),
			zap.Duration("since_last_start", now.Sub(c.lastStart)),
		)
		return
	}
	if len(c.usernames) == 0 {
		c.mu.Unlock()
		return
	}
	c.lastStart = now
	c.inFlight = true
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	body := strings.Join(c.usernames, ",")
	c.mu.Unlock()

	go c.stream(ctx, body)
}

// Stop aborts any in-flight request. Safe to call when idle.
func (c *Conn) Stop() {
	c.mu.Lock()
	c.stopped = true
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Conn) stream(ctx context.Context, body string) {
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.cancel = nil
		stopped := c.stopped
		c.mu.Unlock()
		if !stopped {
			c.Watch()
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(body))
	if err != nil {
		obslog.L().Error("watch_request_build", zap.Error(err))
		return
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			obslog.L().Warn("watch_transport_error", zap.Error(err))
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		obslog.L().Warn("watch_bad_status", zap.Int("status", resp.StatusCode))
		return
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev lichess.GameEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			// malformed payload: abort the request and reconnect rather
			// than guessing at the framing
			obslog.L().Warn("watch_malformed_event", zap.Error(err), zap.ByteString("chunk", truncateBytes(line, 256)))
			return
		}
		c.handler(&ev)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		obslog.L().Warn("watch_stream_error", zap.Error(err))
	}
}

func truncateBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
