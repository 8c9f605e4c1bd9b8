package notify

import (
	"sync"

	"github.com/teamchess/leaguebot/internal/league"
)

// GameStart is emitted once when a pairing's game link is first recorded.
type GameStart struct {
	League     string
	LeagueName string
	White      string
	Black      string
	GameLink   string
	Channel    string
}

// GameOver is emitted once when a pairing's result is first recorded.
type GameOver struct {
	League     string
	LeagueName string
	White      string
	Black      string
	Result     league.Result
	GameLink   string
	Channel    string
}

// GameWarning is emitted for reportable invalid events.
type GameWarning struct {
	League     string
	LeagueName string
	White      string
	Black      string
	Reason     string
	Channel    string
}

type startEntry struct {
	id int
	cb func(GameStart)
}
type overEntry struct {
	id int
	cb func(GameOver)
}
type warnEntry struct {
	id int
	cb func(GameWarning)
}

// Publisher fans validated domain notifications out to subscribers.
// Payloads are strongly typed; delivery is synchronous and best-effort
// (subscribers must not block).
type Publisher struct {
	mu       sync.RWMutex
	nextID   int
	startCbs []startEntry
	overCbs  []overEntry
	warnCbs  []warnEntry
}

func NewPublisher() *Publisher { return &Publisher{} }

func (p *Publisher) OnGameStart(cb func(GameStart)) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.startCbs = append(p.startCbs, startEntry{id: p.nextID, cb: cb})
	return p.nextID
}

func (p *Publisher) OnGameOver(cb func(GameOver)) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.overCbs = append(p.overCbs, overEntry{id: p.nextID, cb: cb})
	return p.nextID
}

func (p *Publisher) OnGameWarning(cb func(GameWarning)) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.warnCbs = append(p.warnCbs, warnEntry{id: p.nextID, cb: cb})
	return p.nextID
}

func (p *Publisher) GameStarts(ev GameStart) {
	p.mu.RLock()
	cbs := make([]startEntry, len(p.startCbs))
	copy(cbs, p.startCbs)
	p.mu.RUnlock()
	for _, e := range cbs {
		if e.cb != nil {
			e.cb(ev)
		}
	}
}

func (p *Publisher) GameIsOver(ev GameOver) {
	p.mu.RLock()
	cbs := make([]overEntry, len(p.overCbs))
	copy(cbs, p.overCbs)
	p.mu.RUnlock()
	for _, e := range cbs {
		if e.cb != nil {
			e.cb(ev)
		}
	}
}

func (p *Publisher) GameWarned(ev GameWarning) {
	p.mu.RLock()
	cbs := make([]warnEntry, len(p.warnCbs))
	copy(cbs, p.warnCbs)
	p.mu.RUnlock()
	for _, e := range cbs {
		if e.cb != nil {
			e.cb(ev)
		}
	}
}
