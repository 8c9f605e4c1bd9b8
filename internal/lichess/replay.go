package lichess

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Replay is the result of replaying a detail record's SAN move list.
type Replay struct {
	MovesUCI []string
	Outcome  string // "white", "black", "draw", or "" when undecided on the board
}

// ReplayMoves replays the space-separated SAN moves from a game detail.
// Used to normalize moves to UCI for the audit log and to cross-check the
// reported winner against the position on the board.
func ReplayMoves(moves string) (*Replay, error) {
	fields := strings.Fields(strings.TrimSpace(moves))
	game := nchess.NewGame()
	for i, san := range fields {
		if err := game.PushNotationMove(san, nchess.AlgebraicNotation{}, nil); err != nil {
			return nil, fmt.Errorf("move %d %q: %w", i+1, san, err)
		}
	}
	uci := make([]string, 0, len(fields))
	for _, mv := range game.Moves() {
		uci = append(uci, mv.String())
	}
	r := &Replay{MovesUCI: uci}
	switch game.Outcome() {
	case nchess.WhiteWon:
		r.Outcome = "white"
	case nchess.BlackWon:
		r.Outcome = "black"
	case nchess.Draw:
		r.Outcome = "draw"
	}
	return r, nil
}
