package gamelog

import (
	"strings"
	"testing"

	"github.com/teamchess/leaguebot/internal/league"
)

func TestBuildPGN(t *testing.T) {
	e := &Entry{
		League:   "team4545",
		White:    "happy0",
		Black:    "tephra",
		Result:   league.ResultWhiteWin,
		GameLink: "https://lichess.org/h4zzur2x",
		MovesSAN: "e4 e5 Bc4 Nc6 Qh5 Nf6 Qxf7#",
	}
	pgn := buildPGN(e)

	for _, want := range []string{
		`[Event "team4545"]`,
		`[White "happy0"]`,
		`[Black "tephra"]`,
		`[Site "https://lichess.org/h4zzur2x"]`,
		`[Result "1-0"]`,
		"1. e4 e5",
		"4. Qxf7#",
	} {
		if !strings.Contains(pgn, want) {
			t.Fatalf("pgn missing %q:\n%s", want, pgn)
		}
	}
	if !strings.HasSuffix(pgn, "1-0") {
		t.Fatalf("pgn must end with the result:\n%s", pgn)
	}
}

func TestBuildPGN_NoMoves(t *testing.T) {
	if got := buildPGN(&Entry{League: "team4545"}); got != "" {
		t.Fatalf("moveless entry must produce no PGN: %q", got)
	}
}

func TestBuildPGN_EscapesTagValues(t *testing.T) {
	e := &Entry{
		League:   `lea"gue`,
		White:    "happy0",
		Black:    "tephra",
		MovesSAN: "e4",
	}
	pgn := buildPGN(e)
	if strings.Contains(pgn, `lea"gue`) {
		t.Fatalf("quotes must be sanitized:\n%s", pgn)
	}
	if !strings.Contains(pgn, "lea'gue") {
		t.Fatalf("sanitized value missing:\n%s", pgn)
	}
}

func TestPGNResult(t *testing.T) {
	if got := pgnResult(league.ResultDraw); got != "1/2-1/2" {
		t.Fatalf("draw = %q", got)
	}
	if got := pgnResult(league.ResultNone); got != "*" {
		t.Fatalf("none = %q", got)
	}
	if got := pgnResult(league.ResultWhiteForfeitWin); got != "*" {
		t.Fatalf("forfeit = %q", got)
	}
}
