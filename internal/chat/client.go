package chat

import (
	"context"

	"github.com/valyala/fasthttp"

	"github.com/teamchess/leaguebot/internal/restfast"
)

// postRequest is the wire shape for posting a plain-text message.
type postRequest struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Client posts chat messages over HTTP.
type Client struct {
	rest *restfast.Client
}

func NewClient(baseURL string, opts ...restfast.Option) *Client {
	return &Client{rest: restfast.NewClient(baseURL, opts...)}
}

func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	req := postRequest{Type: "text", Channel: channel, Text: text}
	return c.rest.DoJSON(ctx, fasthttp.MethodPost, "/post", req, nil, false)
}
