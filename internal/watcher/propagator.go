package watcher

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamchess/leaguebot/internal/gamelog"
	"github.com/teamchess/leaguebot/internal/heltour"
	"github.com/teamchess/leaguebot/internal/league"
	"github.com/teamchess/leaguebot/internal/lichess"
	"github.com/teamchess/leaguebot/internal/notify"
	"github.com/teamchess/leaguebot/internal/obslog"
)

// scheduleSlack is how far a game's creation time may sit from the
// pairing's scheduled time before a time-control warning is considered
// noise from an unrelated game.
const scheduleSlack = 2 * time.Hour

// PairingSource refreshes a league's pairing list.
type PairingSource interface {
	CurrentPairings(ctx context.Context, leagueName string) ([]league.Pairing, error)
}

// Scorekeeper is the external system of record for pairings and results.
type Scorekeeper interface {
	UpdatePairing(ctx context.Context, leagueName, white, black string, result league.Result, gameLink string) (*heltour.UpdateResponse, error)
	GameWarning(ctx context.Context, leagueName, white, black, reason string) error
}

// GameDetailer fetches the authoritative record for a game id.
type GameDetailer interface {
	GameByID(ctx context.Context, id string) (*lichess.Detail, error)
}

// AuditLog persists propagated updates and emitted warnings.
type AuditLog interface {
	SaveUpdate(ctx context.Context, e *gamelog.Entry) error
	SaveWarning(ctx context.Context, e *gamelog.Entry) error
}

// RatingCache stores the latest observed rating per player.
type RatingCache interface {
	SetRatings(ctx context.Context, ratings map[string]int) error
}

// Propagator consumes events handed over by the pool, validates them
// against fresh pairing data and pushes legitimate changes to the
// scorekeeping service exactly once per meaningful transition. External
// failures are logged and swallowed: the next push for the same pairing
// gets an independent chance.
type Propagator struct {
	pairings PairingSource
	keeper   Scorekeeper
	details  GameDetailer
	events   *notify.Publisher
	audit    AuditLog    // optional
	ratings  RatingCache // optional
	linkBase string
}

func NewPropagator(pairings PairingSource, keeper Scorekeeper, details GameDetailer, events *notify.Publisher, linkBase string) *Propagator {
	return &Propagator{
		pairings: pairings,
		keeper:   keeper,
		details:  details,
		events:   events,
		linkBase: strings.TrimRight(linkBase, "/"),
	}
}

// AttachAuditLog wires an optional persistence sink for updates/warnings.
func (pr *Propagator) AttachAuditLog(a AuditLog) { pr.audit = a }

// AttachRatingCache wires an optional cache of observed player ratings.
func (pr *Propagator) AttachRatingCache(r RatingCache) { pr.ratings = r }

// OnEvent handles one pushed event for one league. Pairings are refreshed
// first so validation never runs against data older than one refresh;
// the latency cost is accepted.
func (pr *Propagator) OnEvent(ctx context.Context, lg *league.League, ev *lichess.GameEvent) {
	corrID := uuid.NewString()

	current, err := pr.pairings.CurrentPairings(ctx, lg.Name())
	if err != nil {
		obslog.L().Error("pairing_refresh_error",
			zap.String("league", lg.Name()),
			zap.String("game_id", ev.ID),
			zap.String("corr_id", corrID),
			zap.Error(err),
		)
		return
	}
	lg.SetPairings(current)

	window := league.ComputeWindow(lg.Config().Scheduling, time.Time{})
	res := league.Validate(lg.Pairings(), window, lg.Rules(), ev)

	if res.Pairing == nil {
		// no pairing can ever become valid for this event
		return
	}

	if res.Valid {
		pr.handleValid(ctx, lg, ev, res, corrID)
		return
	}
	pr.handleInvalid(ctx, lg, ev, res, corrID)
}

func (pr *Propagator) handleValid(ctx context.Context, lg *league.League, ev *lichess.GameEvent, res league.ValidationResult, corrID string) {
	p := res.Pairing

	// A result or a different game link already on the pairing means this
	// event is not the first legitimate update. A freshly started game in
	// that situation deserves a warning: it should not silently override
	// what the scorekeeper already has.
	if p.Result != league.ResultNone {
		if ev.Status == lichess.StatusStarted {
			pr.emitWarning(ctx, lg, p, "a result already exists for this pairing.", corrID)
		}
		return
	}
	if p.GameLink != "" && !strings.Contains(p.GameLink, ev.ID) {
		if ev.Status == lichess.StatusStarted {
			pr.emitWarning(ctx, lg, p, "a different game link already exists for this pairing.", corrID)
		}
		return
	}

	detail, err := pr.details.GameByID(ctx, ev.ID)
	if err != nil {
		obslog.L().Error("game_detail_error",
			zap.String("league", lg.Name()),
			zap.String("game_id", ev.ID),
			zap.String("corr_id", corrID),
			zap.Error(err),
		)
		return
	}

	result := league.MapResult(detail.Status, detail.Winner)
	link := pr.gameLink(ev.ID)

	resp, err := pr.keeper.UpdatePairing(ctx, lg.Name(), p.White, p.Black, result, link)
	if err != nil {
		obslog.L().Error("update_pairing_error",
			zap.String("league", lg.Name()),
			zap.String("game_id", ev.ID),
			zap.String("corr_id", corrID),
			zap.Error(err),
		)
		return
	}

	obslog.L().Info("pairing_update",
		zap.String("league", lg.Name()),
		zap.String("game_id", ev.ID),
		zap.String("white", p.White),
		zap.String("black", p.Black),
		zap.String("result", string(result)),
		zap.Bool("result_changed", resp.ResultChanged),
		zap.Bool("gamelink_changed", resp.GamelinkChanged),
		zap.String("corr_id", corrID),
	)

	pr.cacheRatings(ctx, ev)
	pr.auditUpdate(ctx, lg, p, detail, result, link, corrID)

	cfg := lg.Config()
	switch {
	case resp.ResultChanged:
		pr.events.GameIsOver(notify.GameOver{
			League:     lg.Name(),
			LeagueName: cfg.DisplayName,
			White:      p.White,
			Black:      p.Black,
			Result:     result,
			GameLink:   link,
			Channel:    cfg.Channel,
		})
	case resp.GamelinkChanged:
		pr.events.GameStarts(notify.GameStart{
			League:     lg.Name(),
			LeagueName: cfg.DisplayName,
			White:      p.White,
			Black:      p.Black,
			GameLink:   link,
			Channel:    cfg.Channel,
		})
	}
}

func (pr *Propagator) handleInvalid(ctx context.Context, lg *league.League, ev *lichess.GameEvent, res league.ValidationResult, corrID string) {
	reportable := ev.Status == lichess.StatusStarted || res.ClaimVictoryNotAllowed || res.CheatDetected
	if !reportable {
		// most invalid events are just games unrelated to the league
		return
	}

	if res.TimeControlIsIncorrect {
		p := res.Pairing
		if !p.ScheduledDate.IsZero() {
			gap := ev.CreatedTime().Sub(p.ScheduledDate)
			if gap < 0 {
				gap = -gap
			}
			if gap > scheduleSlack {
				obslog.L().Debug("warning_suppressed_offschedule",
					zap.String("league", lg.Name()),
					zap.String("game_id", ev.ID),
					zap.Duration("gap", gap),
					zap.String("corr_id", corrID),
				)
				return
			}
		}
	}

	pr.emitWarning(ctx, lg, res.Pairing, res.Reason, corrID)
}

func (pr *Propagator) emitWarning(ctx context.Context, lg *league.League, p *league.Pairing, reason, corrID string) {
	obslog.L().Warn("game_warning",
		zap.String("league", lg.Name()),
		zap.String("white", p.White),
		zap.String("black", p.Black),
		zap.String("reason", reason),
		zap.String("corr_id", corrID),
	)
	if err := pr.keeper.GameWarning(ctx, lg.Name(), p.White, p.Black, reason); err != nil {
		obslog.L().Error("game_warning_error",
			zap.String("league", lg.Name()),
			zap.String("corr_id", corrID),
			zap.Error(err),
		)
	}
	if pr.audit != nil {
		e := &gamelog.Entry{
			ID:     corrID,
			Kind:   gamelog.KindWarning,
			League: lg.Name(),
			White:  p.White,
			Black:  p.Black,
			Reason: reason,
		}
		if err := pr.audit.SaveWarning(ctx, e); err != nil {
			obslog.L().Error("audit_warning_error", zap.String("corr_id", corrID), zap.Error(err))
		}
	}
	cfg := lg.Config()
	pr.events.GameWarned(notify.GameWarning{
		League:     lg.Name(),
		LeagueName: cfg.DisplayName,
		White:      p.White,
		Black:      p.Black,
		Reason:     reason,
		Channel:    cfg.Channel,
	})
}

func (pr *Propagator) cacheRatings(ctx context.Context, ev *lichess.GameEvent) {
	if pr.ratings == nil {
		return
	}
	ratings := make(map[string]int, 2)
	if ev.Players.White.UserID != "" && ev.Players.White.Rating > 0 {
		ratings[ev.Players.White.UserID] = ev.Players.White.Rating
	}
	if ev.Players.Black.UserID != "" && ev.Players.Black.Rating > 0 {
		ratings[ev.Players.Black.UserID] = ev.Players.Black.Rating
	}
	if len(ratings) == 0 {
		return
	}
	if err := pr.ratings.SetRatings(ctx, ratings); err != nil {
		obslog.L().Warn("rating_cache_error", zap.Error(err))
	}
}

func (pr *Propagator) auditUpdate(ctx context.Context, lg *league.League, p *league.Pairing, detail *lichess.Detail, result league.Result, link, corrID string) {
	if pr.audit == nil {
		return
	}
	e := &gamelog.Entry{
		ID:       corrID,
		Kind:     gamelog.KindUpdate,
		League:   lg.Name(),
		White:    p.White,
		Black:    p.Black,
		Result:   result,
		GameLink: link,
		MovesSAN: detail.Moves,
	}
	if detail.Moves != "" {
		replay, err := lichess.ReplayMoves(detail.Moves)
		if err != nil {
			obslog.L().Warn("detail_replay_error", zap.String("game_id", detail.ID), zap.Error(err))
		} else {
			e.MovesUCI = replay.MovesUCI
			if replay.Outcome != "" && detail.Winner != "" && replay.Outcome != detail.Winner {
				obslog.L().Warn("detail_outcome_mismatch",
					zap.String("game_id", detail.ID),
					zap.String("reported", detail.Winner),
					zap.String("replayed", replay.Outcome),
					zap.String("corr_id", corrID),
				)
			}
		}
	}
	if err := pr.audit.SaveUpdate(ctx, e); err != nil {
		obslog.L().Error("audit_update_error", zap.String("corr_id", corrID), zap.Error(err))
	}
}

func (pr *Propagator) gameLink(id string) string {
	if pr.linkBase == "" {
		return id
	}
	return pr.linkBase + "/" + id
}
