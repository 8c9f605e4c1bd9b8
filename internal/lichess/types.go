package lichess

import "time"

// Status is the numeric game lifecycle code pushed by the game server.
type Status int

const (
	StatusCreated       Status = 10
	StatusStarted       Status = 20
	StatusAborted       Status = 25
	StatusMate          Status = 30
	StatusResign        Status = 31
	StatusStalemate     Status = 32
	StatusTimeout       Status = 33 // claim victory
	StatusDraw          Status = 34
	StatusOutOfTime     Status = 35
	StatusCheat         Status = 36
	StatusNoStart       Status = 37
	StatusUnknownFinish Status = 38
	StatusVariantEnd    Status = 60
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusStarted:
		return "started"
	case StatusAborted:
		return "aborted"
	case StatusMate:
		return "mate"
	case StatusResign:
		return "resign"
	case StatusStalemate:
		return "stalemate"
	case StatusTimeout:
		return "timeout"
	case StatusDraw:
		return "draw"
	case StatusOutOfTime:
		return "outoftime"
	case StatusCheat:
		return "cheat"
	case StatusNoStart:
		return "noStart"
	case StatusUnknownFinish:
		return "unknownFinish"
	case StatusVariantEnd:
		return "variantEnd"
	default:
		return "unknown"
	}
}

// Clock times are seconds: Initial is the base time, Increment per move.
type Clock struct {
	Initial   int `json:"initial"`
	Increment int `json:"increment"`
}

type Player struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
}

type Players struct {
	White Player `json:"white"`
	Black Player `json:"black"`
}

// GameEvent is one pushed object from the game-event stream. The payload is
// untrusted: it may be duplicated, out of order, or reference games that
// have nothing to do with any league.
type GameEvent struct {
	ID        string  `json:"id"`
	Rated     bool    `json:"rated"`
	Variant   string  `json:"variant"`
	Speed     string  `json:"speed"`
	Perf      string  `json:"perf,omitempty"`
	CreatedAt int64   `json:"createdAt"` // epoch millis
	Status    Status  `json:"status"`
	Clock     *Clock  `json:"clock,omitempty"`
	Players   Players `json:"players"`
	Winner    string  `json:"winner,omitempty"`
}

func (e *GameEvent) CreatedTime() time.Time {
	return time.UnixMilli(e.CreatedAt).UTC()
}

// Detail is the authoritative game record from the game-detail API. It is a
// narrower, trustworthier schema than the stream payload and is the
// canonical source for final result mapping.
type Detail struct {
	ID         string  `json:"id"`
	Rated      bool    `json:"rated"`
	Variant    string  `json:"variant"`
	Speed      string  `json:"speed"`
	Perf       string  `json:"perf,omitempty"`
	CreatedAt  int64   `json:"createdAt"`
	LastMoveAt int64   `json:"lastMoveAt,omitempty"`
	Status     Status  `json:"status"`
	Clock      *Clock  `json:"clock,omitempty"`
	Players    Players `json:"players"`
	Winner     string  `json:"winner,omitempty"`
	Moves      string  `json:"moves,omitempty"` // space-separated SAN
}

func (d *Detail) CreatedTime() time.Time {
	return time.UnixMilli(d.CreatedAt).UTC()
}
