package league

import (
	"strings"

	"github.com/teamchess/leaguebot/internal/leaguecfg"
	"github.com/teamchess/leaguebot/internal/lichess"
)

// Rules are the league constraints a live game must satisfy.
type Rules struct {
	Clock   leaguecfg.Clock // Initial minutes, Increment seconds
	Rated   bool
	Variant string
}

// ValidationResult reports whether an event legitimately updates a pairing.
// When Valid is false exactly one failure flag is set: checks run in a fixed
// priority order and the first failing check wins, so the surfaced Reason is
// stable even when several problems exist at once.
type ValidationResult struct {
	Valid   bool
	Pairing *Pairing
	Reason  string

	PairingWasNotFound        bool
	ColorsAreReversed         bool
	GameIsUnrated             bool
	TimeControlIsIncorrect    bool
	VariantIsIncorrect        bool
	GameOutsideOfCurrentRound bool
	ClaimVictoryNotAllowed    bool
	CheatDetected             bool
}

// Validate matches the event against the pairing list and checks it against
// the league rules and round window. The check order is a deliberate,
// preserved contract; reordering would change which reason is surfaced.
func Validate(pairings []Pairing, window RoundWindow, rules Rules, event *lichess.GameEvent) ValidationResult {
	candidates := findCandidates(pairings, event)

	var r ValidationResult
	if len(candidates) == 0 {
		r.PairingWasNotFound = true
		r.Reason = "the pairing was not found."
		return r
	}
	r.Pairing = candidates[0]

	if event.Clock == nil ||
		event.Clock.Initial != rules.Clock.Initial*60 ||
		event.Clock.Increment != rules.Clock.Increment {
		r.TimeControlIsIncorrect = true
		r.Reason = "the time control is incorrect."
		return r
	}

	if len(candidates) == 1 && strings.EqualFold(event.Players.White.UserID, candidates[0].Black) {
		r.ColorsAreReversed = true
		r.Reason = "the colors are reversed."
		return r
	}

	if event.Rated != rules.Rated {
		r.GameIsUnrated = true
		if rules.Rated {
			r.Reason = "the game is unrated."
		} else {
			r.Reason = "the game is rated."
		}
		return r
	}

	if !strings.EqualFold(event.Variant, rules.Variant) {
		r.VariantIsIncorrect = true
		r.Reason = "the variant is incorrect."
		return r
	}

	if event.Status == lichess.StatusTimeout {
		r.ClaimVictoryNotAllowed = true
		r.Reason = "claiming victory is not allowed for league games."
		return r
	}

	if event.Status == lichess.StatusCheat {
		r.CheatDetected = true
		r.Reason = "the game was ended due to cheat detection."
		return r
	}

	if !window.Contains(event.CreatedTime()) {
		r.GameOutsideOfCurrentRound = true
		r.Reason = "the game was not played in the current round."
		return r
	}

	r.Valid = true
	return r
}

// findCandidates filters pairings to those whose white and black usernames
// both appear, case-insensitively, somewhere in the event's two user ids.
// This mirrors the legacy find-by-either-side lookup; the first match is the
// pairing the event is judged against.
func findCandidates(pairings []Pairing, event *lichess.GameEvent) []*Pairing {
	ew := strings.ToLower(event.Players.White.UserID)
	eb := strings.ToLower(event.Players.Black.UserID)

	var out []*Pairing
	for i := range pairings {
		p := &pairings[i]
		pw := strings.ToLower(strings.TrimSpace(p.White))
		pb := strings.ToLower(strings.TrimSpace(p.Black))
		if pw == "" || pb == "" {
			continue
		}
		whiteSeen := strings.Contains(ew, pw) || strings.Contains(eb, pw)
		blackSeen := strings.Contains(ew, pb) || strings.Contains(eb, pb)
		if whiteSeen && blackSeen {
			out = append(out, p)
		}
	}
	return out
}
