package league

import "time"

// Result is the league's result vocabulary, as stored by the scorekeeping
// service. Forfeit codes are never produced from a live game event; they are
// passed through unchanged when already present on a pairing.
type Result string

const (
	ResultNone     Result = ""
	ResultWhiteWin Result = "1-0"
	ResultBlackWin Result = "0-1"
	ResultDraw     Result = "1/2-1/2"

	ResultWhiteForfeitWin Result = "1X-0F"
	ResultBlackForfeitWin Result = "0F-1X"
	ResultDoubleForfeit   Result = "0F-0F"
)

// IsForfeit reports whether r is a manually assigned forfeit code.
func (r Result) IsForfeit() bool {
	switch r {
	case ResultWhiteForfeitWin, ResultBlackForfeitWin, ResultDoubleForfeit:
		return true
	}
	return false
}

// Pairing is a scheduled white-vs-black matchup for the current round.
// Pairing lists are replaced wholesale on each refresh and are read-only to
// the watcher.
type Pairing struct {
	White         string
	Black         string
	ScheduledDate time.Time // zero when unscheduled
	GameLink      string
	Result        Result
}
