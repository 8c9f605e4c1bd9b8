package league

import (
	"sync"

	"github.com/teamchess/leaguebot/internal/leaguecfg"
)

// League holds one league's configuration and its current pairing list.
// Pairings are replaced wholesale on refresh and never mutated in place, so
// concurrent readers never observe a torn write.
type League struct {
	cfg leaguecfg.League

	mu        sync.RWMutex
	pairings  []Pairing
	refreshed bool
}

func New(cfg leaguecfg.League) *League {
	return &League{cfg: cfg}
}

func (l *League) Name() string             { return l.cfg.Name }
func (l *League) Config() leaguecfg.League { return l.cfg }

func (l *League) Rules() Rules {
	return Rules{Clock: l.cfg.Clock, Rated: l.cfg.Rated, Variant: l.cfg.Variant}
}

// SetPairings replaces the pairing list and marks the league refreshed.
func (l *League) SetPairings(ps []Pairing) {
	l.mu.Lock()
	l.pairings = ps
	l.refreshed = true
	l.mu.Unlock()
}

// Pairings returns the current pairing list. Callers must treat the slice
// as read-only.
func (l *League) Pairings() []Pairing {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pairings
}

// HasRefreshed reports whether the pairing list has been loaded at least
// once since startup.
func (l *League) HasRefreshed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.refreshed
}
