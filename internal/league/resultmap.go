package league

import "github.com/teamchess/leaguebot/internal/lichess"

// MapResult translates a game status and winner into the league's result
// vocabulary. ResultNone means the game carries no result yet (still in
// progress or aborted). Forfeit codes never come from live games.
func MapResult(status lichess.Status, winner string) Result {
	if status != lichess.StatusDraw && status != lichess.StatusStalemate && winner == "" {
		return ResultNone
	}
	switch winner {
	case "black":
		return ResultBlackWin
	case "white":
		return ResultWhiteWin
	default:
		return ResultDraw
	}
}
