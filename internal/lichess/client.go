package lichess

import (
	"context"
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/teamchess/leaguebot/internal/restfast"
)

// Client fetches authoritative game details.
type Client struct {
	rest *restfast.Client
}

func NewClient(baseURL string, opts ...restfast.Option) *Client {
	return &Client{rest: restfast.NewClient(baseURL, opts...)}
}

// GameByID fetches the game record for a stream event's id.
func (c *Client) GameByID(ctx context.Context, id string) (*Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("game id required")
	}
	var d Detail
	if err := c.rest.DoJSON(ctx, fasthttp.MethodGet, "/api/game/"+id, nil, &d, true); err != nil {
		return nil, fmt.Errorf("fetch game %s: %w", id, err)
	}
	return &d, nil
}
