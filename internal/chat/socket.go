package chat

import (
	"context"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/teamchess/leaguebot/internal/restfast"
)

type SocketState string

const (
	SocketDisconnected SocketState = "disconnected"
	SocketConnecting   SocketState = "connecting"
	SocketConnected    SocketState = "connected"
	SocketReconnecting SocketState = "reconnecting"
	SocketFailed       SocketState = "failed"
)

type StateCallback func(state SocketState)

// Socket keeps a chat websocket open for posting messages, reconnecting
// with backoff when the server drops it. Inbound frames are read and
// discarded; command handling lives outside this subsystem.
type Socket struct {
	wsURL string

	conn   *websocket.Conn
	state  SocketState
	stateM sync.RWMutex

	stateCbs []StateCallback
	cbM      sync.RWMutex

	maxReconnectAttempts int

	pingInterval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

func NewSocket(wsURL string, maxReconnectAttempts int) *Socket {
	return &Socket{
		wsURL:                wsURL,
		state:                SocketDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		pingInterval:         30 * time.Second,
		stopCh:               make(chan struct{}),
	}
}

func (s *Socket) Connect(ctx context.Context) error {
	s.stateM.Lock()
	if s.state == SocketConnected || s.state == SocketConnecting {
		s.stateM.Unlock()
		return nil
	}
	s.stateM.Unlock()

	s.rootCtx, s.rootCancel = context.WithCancel(context.Background())
	s.setState(SocketConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, s.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		s.setState(SocketFailed)
		s.scheduleReconnect()
		return err
	}

	s.setConn(conn)
	s.setState(SocketConnected)
	s.wg.Add(2)
	go s.drain()
	go s.pingLoop()
	return nil
}

// WriteJSON posts one frame. Fails fast when the socket is not connected so
// the auto egress can fall back to HTTP.
func (s *Socket) WriteJSON(ctx context.Context, v any) error {
	conn := s.currentConn()
	if conn == nil || s.State() != SocketConnected {
		return ErrSocketNotConnected
	}
	dctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return wsjson.Write(dctx, conn, v)
}

func (s *Socket) State() SocketState {
	s.stateM.RLock()
	defer s.stateM.RUnlock()
	return s.state
}

func (s *Socket) OnStateChange(cb StateCallback) {
	s.cbM.Lock()
	s.stateCbs = append(s.stateCbs, cb)
	s.cbM.Unlock()
}

// drain reads and discards inbound frames; a read error triggers reconnect.
func (s *Socket) drain() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}
		conn := s.currentConn()
		if conn == nil {
			return
		}
		if _, _, err := conn.Read(s.rootCtx); err != nil {
			if s.isStopping() {
				return
			}
			s.setState(SocketDisconnected)
			_ = s.closeConn(websocket.StatusGoingAway, "reconnect")
			s.scheduleReconnect()
			return
		}
	}
}

func (s *Socket) pingLoop() {
	defer s.wg.Done()
	t := time.NewTicker(s.pingInterval)
	defer t.Stop()
	failures := 0
	for {
		select {
		case <-s.stopCh:
			return
		case <-t.C:
			conn := s.currentConn()
			if conn == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(s.rootCtx, 3*time.Second)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				failures++
				if failures >= 2 {
					if s.isStopping() {
						return
					}
					s.setState(SocketDisconnected)
					_ = s.closeConn(websocket.StatusGoingAway, "ping failure")
					s.scheduleReconnect()
					failures = 0
				}
				continue
			}
			failures = 0
		}
	}
}

func (s *Socket) scheduleReconnect() {
	if s.maxReconnectAttempts <= 0 {
		return
	}
	s.setState(SocketReconnecting)

	go func() {
		for attempt := 1; attempt <= s.maxReconnectAttempts; attempt++ {
			select {
			case <-s.stopCh:
				return
			case <-time.After(restfast.BackoffDuration(attempt)):
			}

			dialCtx, cancel := context.WithTimeout(s.rootCtx, 10*time.Second)
			conn, _, err := websocket.Dial(dialCtx, s.wsURL, &websocket.DialOptions{
				CompressionMode: websocket.CompressionNoContextTakeover,
			})
			cancel()
			if err != nil {
				continue
			}

			s.setConn(conn)
			s.setState(SocketConnected)
			s.wg.Add(2)
			go s.drain()
			go s.pingLoop()
			return
		}
		s.setState(SocketFailed)
	}()
}

func (s *Socket) setState(state SocketState) {
	s.stateM.Lock()
	s.state = state
	s.stateM.Unlock()

	s.cbM.RLock()
	cbs := make([]StateCallback, len(s.stateCbs))
	copy(cbs, s.stateCbs)
	s.cbM.RUnlock()
	for _, cb := range cbs {
		if cb != nil {
			cb(state)
		}
	}
}

func (s *Socket) Close(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	_ = s.closeConn(websocket.StatusNormalClosure, "close")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if s.rootCancel != nil {
			s.rootCancel()
		}
		return nil
	}
}

func (s *Socket) setConn(conn *websocket.Conn) {
	s.stateM.Lock()
	s.conn = conn
	s.stateM.Unlock()
}

func (s *Socket) currentConn() *websocket.Conn {
	s.stateM.RLock()
	defer s.stateM.RUnlock()
	return s.conn
}

func (s *Socket) closeConn(code websocket.StatusCode, reason string) error {
	s.stateM.Lock()
	conn := s.conn
	s.conn = nil
	s.stateM.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close(code, reason)
}

func (s *Socket) isStopping() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}
