package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var ErrSocketNotConnected = errors.New("chat socket not connected")

// Egress posts plain-text chat messages. Delivery is best-effort; callers
// log and move on when it fails.
type Egress interface {
	SendText(ctx context.Context, channel, text string) error
}

// NewEgress selects a transport: "ws" posts over the socket, "http" over
// the REST client, "auto" prefers the socket when connected with a single
// HTTP fallback.
func NewEgress(mode string, dryrun bool, c *Client, s *Socket, logger *zap.Logger) Egress {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch mode {
	case "ws":
		return &wsEgress{s: s, dryrun: dryrun, logger: logger}
	case "auto":
		return &autoEgress{ws: &wsEgress{s: s, dryrun: dryrun, logger: logger}, http: &httpEgress{c: c}, logger: logger}
	default:
		return &httpEgress{c: c}
	}
}

type httpEgress struct{ c *Client }

func (h *httpEgress) SendText(ctx context.Context, channel, text string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.PostMessage(ctx, channel, text)
}

type wsEgress struct {
	s      *Socket
	dryrun bool
	logger *zap.Logger
}

func (w *wsEgress) SendText(ctx context.Context, channel, text string) error {
	if w == nil || w.s == nil {
		return errors.New("ws egress not available")
	}
	if w.dryrun {
		w.logger.Info("chat_egress_dryrun", zap.String("channel", channel))
		return nil
	}
	req := postRequest{Type: "text", Channel: channel, Text: text}
	return w.s.WriteJSON(ctx, &req)
}

type autoEgress struct {
	ws     *wsEgress
	http   *httpEgress
	logger *zap.Logger
}

func (a *autoEgress) SendText(ctx context.Context, channel, text string) error {
	if a.ws != nil && a.ws.s != nil && a.ws.s.State() == SocketConnected {
		if err := a.ws.SendText(ctx, channel, text); err == nil {
			return nil
		}
		a.logger.Warn("chat_egress_fallback", zap.String("channel", channel))
	}
	return a.http.SendText(ctx, channel, text)
}
