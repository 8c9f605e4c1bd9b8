package gamelog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/teamchess/leaguebot/internal/league"
)

type Kind string

const (
	KindUpdate  Kind = "update"
	KindWarning Kind = "warning"
)

// Entry is one audited propagation: either a pairing update pushed to the
// scorekeeper or a warning emitted against a pairing.
type Entry struct {
	ID       string
	Kind     Kind
	League   string
	White    string
	Black    string
	Result   league.Result
	GameLink string
	Reason   string
	MovesSAN string // space-separated, as served by the detail API
	MovesUCI []string
}

type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveUpdate upserts the audit row for a pairing update. One row per
// (league, white, black): a re-propagated update for the same pairing
// replaces the earlier row.
func (r *Repository) SaveUpdate(ctx context.Context, e *Entry) error {
	if r == nil || r.db == nil || e == nil {
		return nil
	}
	movesUCIRaw, _ := json.Marshal(e.MovesUCI)
	pgn := buildPGN(e)

	q := `INSERT INTO game_updates (
	    update_id, league, white, black,
	    result, game_link, moves_san, moves_uci, pgn, recorded_at
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
	  ) ON CONFLICT (league, white, black) DO UPDATE SET
	    update_id=EXCLUDED.update_id,
	    result=EXCLUDED.result,
	    game_link=EXCLUDED.game_link,
	    moves_san=EXCLUDED.moves_san,
	    moves_uci=EXCLUDED.moves_uci,
	    pgn=EXCLUDED.pgn,
	    recorded_at=EXCLUDED.recorded_at`

	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.League, e.White, e.Black,
		string(e.Result), e.GameLink, e.MovesSAN, string(movesUCIRaw), pgn, time.Now().UTC(),
	)
	return err
}

// SaveWarning inserts one row per emitted warning.
func (r *Repository) SaveWarning(ctx context.Context, e *Entry) error {
	if r == nil || r.db == nil || e == nil {
		return nil
	}
	q := `INSERT INTO game_warnings (
	    warning_id, league, white, black, reason, recorded_at
	  ) VALUES ($1,$2,$3,$4,$5,$6)
	  ON CONFLICT (warning_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.League, e.White, e.Black, e.Reason, time.Now().UTC(),
	)
	return err
}

func buildPGN(e *Entry) string {
	if e == nil || strings.TrimSpace(e.MovesSAN) == "" {
		return ""
	}
	var b strings.Builder
	now := time.Now().UTC()
	b.WriteString(fmt.Sprintf("[Event %q]\n", sanitizePGN(e.League)))
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", now.Year(), int(now.Month()), now.Day()))
	b.WriteString(fmt.Sprintf("[White %q]\n", sanitizePGN(e.White)))
	b.WriteString(fmt.Sprintf("[Black %q]\n", sanitizePGN(e.Black)))
	if e.GameLink != "" {
		b.WriteString(fmt.Sprintf("[Site %q]\n", sanitizePGN(e.GameLink)))
	}
	b.WriteString(fmt.Sprintf("[Result %q]\n\n", pgnResult(e.Result)))

	moves := strings.Fields(e.MovesSAN)
	for i := 0; i < len(moves); i += 2 {
		turn := (i / 2) + 1
		b.WriteString(fmt.Sprintf("%d. %s", turn, moves[i]))
		if i+1 < len(moves) {
			b.WriteString(" ")
			b.WriteString(moves[i+1])
		}
		b.WriteString(" ")
	}
	b.WriteString(pgnResult(e.Result))
	return b.String()
}

func pgnResult(r league.Result) string {
	switch r {
	case league.ResultWhiteWin:
		return "1-0"
	case league.ResultBlackWin:
		return "0-1"
	case league.ResultDraw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
