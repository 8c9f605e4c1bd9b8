package heltour

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/teamchess/leaguebot/internal/league"
	"github.com/teamchess/leaguebot/internal/restfast"
)

// Client talks to the scorekeeping service ("heltour"), the system of
// record for pairings and results.
type Client struct {
	rest *restfast.Client
}

func NewClient(baseURL, apiToken string, opts ...restfast.Option) *Client {
	token := strings.TrimSpace(apiToken)
	all := append([]restfast.Option{
		restfast.WithHeaderProvider(func() map[string]string {
			return map[string]string{"Authorization": "Token " + token}
		}),
	}, opts...)
	return &Client{rest: restfast.NewClient(baseURL, all...)}
}

// CurrentPairings fetches the current-round pairing list for a league and
// converts it into domain pairings.
func (c *Client) CurrentPairings(ctx context.Context, leagueName string) ([]league.Pairing, error) {
	var resp pairingsResponse
	path := "/api/find_pairing?league=" + url.QueryEscape(leagueName)
	if err := c.rest.DoJSON(ctx, fasthttp.MethodGet, path, nil, &resp, true); err != nil {
		return nil, fmt.Errorf("fetch pairings for %s: %w", leagueName, err)
	}
	out := make([]league.Pairing, 0, len(resp.Pairings))
	for _, rec := range resp.Pairings {
		p := league.Pairing{
			White:    strings.TrimSpace(rec.White),
			Black:    strings.TrimSpace(rec.Black),
			GameLink: strings.TrimSpace(rec.GameLink),
			Result:   league.Result(strings.TrimSpace(rec.Result)),
		}
		if rec.ScheduledDate != "" {
			if t, err := time.Parse(time.RFC3339, rec.ScheduledDate); err == nil {
				p.ScheduledDate = t.UTC()
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// UpdatePairing submits a result and/or game link for a pairing. The
// response reports which fields actually changed; callers rely on that to
// keep re-deliveries idempotent.
func (c *Client) UpdatePairing(ctx context.Context, leagueName, white, black string, result league.Result, gameLink string) (*UpdateResponse, error) {
	req := updatePairingRequest{
		League:   leagueName,
		White:    white,
		Black:    black,
		Result:   string(result),
		GameLink: gameLink,
	}
	var resp UpdateResponse
	if err := c.rest.DoJSON(ctx, fasthttp.MethodPost, "/api/update_pairing", req, &resp, false); err != nil {
		return nil, fmt.Errorf("update pairing %s %s-%s: %w", leagueName, white, black, err)
	}
	return &resp, nil
}

// GameWarning records a rule-violation warning against a pairing.
func (c *Client) GameWarning(ctx context.Context, leagueName, white, black, reason string) error {
	req := gameWarningRequest{League: leagueName, White: white, Black: black, Reason: reason}
	if err := c.rest.DoJSON(ctx, fasthttp.MethodPost, "/api/game_warning", req, nil, false); err != nil {
		return fmt.Errorf("game warning %s %s-%s: %w", leagueName, white, black, err)
	}
	return nil
}
