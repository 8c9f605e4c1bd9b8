package watcher

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teamchess/leaguebot/internal/league"
	"github.com/teamchess/leaguebot/internal/lichess"
	"github.com/teamchess/leaguebot/internal/obslog"
)

// LeagueEventHandler consumes one pushed event on behalf of one league.
type LeagueEventHandler func(lg *league.League, event *lichess.GameEvent)

// Pool partitions the full player set across fixed-size chunks, one
// streaming connection per chunk, and restarts the whole set when the
// roster changes.
type Pool struct {
	baseURL   string
	chunkSize int
	leagues   []*league.League
	handler   LeagueEventHandler
	httpc     *http.Client

	mu      sync.Mutex
	watched []string
	conns   []*Conn
}

func NewPool(baseURL string, chunkSize int, leagues []*league.League, handler LeagueEventHandler) *Pool {
	if chunkSize <= 0 {
		chunkSize = 300
	}
	return &Pool{
		baseURL:   baseURL,
		chunkSize: chunkSize,
		leagues:   leagues,
		handler:   handler,
		httpc: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Watch recomputes the watched username set and, when it differs from the
// current one, tears down every connection and rebuilds the chunks. Gated
// until every league has refreshed its pairings at least once so the first
// subscription is never partial.
func (p *Pool) Watch() {
	for _, lg := range p.leagues {
		if !lg.HasRefreshed() {
			obslog.L().Info("watch_waiting_for_refresh", zap.String("league", lg.Name()))
			return
		}
	}

	names := p.usernames()

	p.mu.Lock()
	defer p.mu.Unlock()
	if equalStrings(names, p.watched) {
		return
	}

	p.stopLocked()
	p.watched = names

	for start := 0; start < len(names); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(names) {
			end = len(names)
		}
		chunk := make([]string, end-start)
		copy(chunk, names[start:end])
		conn := NewConn(p.baseURL, p.httpc, chunk, p.dispatch)
		p.conns = append(p.conns, conn)
	}
	obslog.L().Info("watch_pool_restart",
		zap.Int("usernames", len(names)),
		zap.Int("connections", len(p.conns)),
	)
	for _, c := range p.conns {
		c.Watch()
	}
}

// Clear stops and discards every connection.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.watched = nil
}

// Connections returns the live connections, for introspection.
func (p *Pool) Connections() []*Conn {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Conn, len(p.conns))
	copy(out, p.conns)
	return out
}

func (p *Pool) stopLocked() {
	for _, c := range p.conns {
		c.Stop()
	}
	p.conns = nil
}

// dispatch offers the event to every watched league; leagues without a
// matching pairing drop it silently downstream.
func (p *Pool) dispatch(ev *lichess.GameEvent) {
	for _, lg := range p.leagues {
		p.handler(lg, ev)
	}
}

// usernames flattens all pairings into a deduplicated, sorted player list.
func (p *Pool) usernames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, lg := range p.leagues {
		for _, pr := range lg.Pairings() {
			for _, name := range []string{pr.White, pr.Black} {
				if name == "" {
					continue
				}
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
