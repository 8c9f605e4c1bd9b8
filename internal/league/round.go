package league

import (
	"time"

	"github.com/teamchess/leaguebot/internal/leaguecfg"
)

// RoundWindow is the rolling 7-day interval during which games for the
// current round must be played, plus a warning instant near the end.
type RoundWindow struct {
	Start   time.Time
	End     time.Time
	Warning time.Time
}

// Contains reports whether t falls inside [Start, End].
func (w RoundWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ComputeWindow derives the round window from the league's scheduling
// options, anchored to the most recent weekday/time cutoff at or before
// reference. A zero reference means now. Pure function: the same inputs
// always produce the same window.
func ComputeWindow(s leaguecfg.Scheduling, reference time.Time) RoundWindow {
	ref := reference
	if ref.IsZero() {
		ref = time.Now()
	}
	ref = ref.UTC()

	target := isoWeekday(s.IsoWeekday)
	cand := time.Date(ref.Year(), ref.Month(), ref.Day(), s.Hour, s.Minute, 0, 0, time.UTC)
	for cand.Weekday() != target || cand.After(ref) {
		cand = cand.AddDate(0, 0, -1)
	}

	end := cand.Add(7 * 24 * time.Hour)
	warning := end.Add(-time.Duration(s.WarningHours) * time.Hour)
	return RoundWindow{Start: cand, End: end, Warning: warning}
}

// isoWeekday maps ISO 1=Monday..7=Sunday onto time.Weekday.
func isoWeekday(n int) time.Weekday {
	return time.Weekday(n % 7)
}
