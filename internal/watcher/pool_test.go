package watcher

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/teamchess/leaguebot/internal/league"
	"github.com/teamchess/leaguebot/internal/leaguecfg"
	"github.com/teamchess/leaguebot/internal/lichess"
)

func poolLeague(t *testing.T, name string, pairings []league.Pairing) *league.League {
	t.Helper()
	lg := league.New(leaguecfg.League{
		Name:       name,
		Rated:      true,
		Variant:    "standard",
		Clock:      leaguecfg.Clock{Initial: 45, Increment: 45},
		Scheduling: leaguecfg.Scheduling{IsoWeekday: 1, Hour: 11, WarningHours: 24},
	})
	if pairings != nil {
		lg.SetPairings(pairings)
	}
	return lg
}

func hangServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPool_ChunksPartitionThePlayerSet(t *testing.T) {
	srv := hangServer(t)
	lg := poolLeague(t, "team4545", []league.Pairing{
		{White: "alice", Black: "bob"},
		{White: "bob", Black: "carol"}, // bob repeats, must dedupe
		{White: "dave", Black: "erin"},
		{White: "frank", Black: "grace"},
	})

	pool := NewPool(srv.URL, 3, []*league.League{lg}, func(*league.League, *lichess.GameEvent) {})
	defer pool.Clear()
	pool.Watch()

	conns := pool.Connections()
	if len(conns) != 3 { // ceil(7 / 3)
		t.Fatalf("connections = %d, want 3", len(conns))
	}

	var all []string
	for _, c := range conns {
		chunk := c.Usernames()
		if len(chunk) == 0 || len(chunk) > 3 {
			t.Fatalf("chunk size = %d, want 1..3", len(chunk))
		}
		all = append(all, chunk...)
	}
	sort.Strings(all)
	want := []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace"}
	if len(all) != len(want) {
		t.Fatalf("flattened chunks = %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("flattened chunks = %v, want %v", all, want)
		}
	}
}

func TestPool_GatedUntilEveryLeagueRefreshed(t *testing.T) {
	srv := hangServer(t)
	ready := poolLeague(t, "team4545", []league.Pairing{{White: "alice", Black: "bob"}})
	pending := poolLeague(t, "lonewolf", nil)

	pool := NewPool(srv.URL, 3, []*league.League{ready, pending}, func(*league.League, *lichess.GameEvent) {})
	defer pool.Clear()

	pool.Watch()
	if n := len(pool.Connections()); n != 0 {
		t.Fatalf("pool started with an unrefreshed league: %d connections", n)
	}

	pending.SetPairings([]league.Pairing{{White: "carol", Black: "dave"}})
	pool.Watch()
	if n := len(pool.Connections()); n == 0 {
		t.Fatalf("pool did not start after all leagues refreshed")
	}
}

func TestPool_UnchangedRosterKeepsConnections(t *testing.T) {
	srv := hangServer(t)
	lg := poolLeague(t, "team4545", []league.Pairing{{White: "alice", Black: "bob"}})

	pool := NewPool(srv.URL, 3, []*league.League{lg}, func(*league.League, *lichess.GameEvent) {})
	defer pool.Clear()

	pool.Watch()
	before := pool.Connections()
	pool.Watch()
	after := pool.Connections()
	if len(before) != 1 || len(after) != 1 || before[0] != after[0] {
		t.Fatalf("identical roster must not rebuild connections")
	}

	// A roster change tears down and rebuilds.
	lg.SetPairings([]league.Pairing{{White: "alice", Black: "carol"}})
	pool.Watch()
	rebuilt := pool.Connections()
	if len(rebuilt) != 1 || rebuilt[0] == before[0] {
		t.Fatalf("changed roster must rebuild connections")
	}
}

func TestPool_DispatchOffersEventToEveryLeague(t *testing.T) {
	a := poolLeague(t, "team4545", []league.Pairing{{White: "alice", Black: "bob"}})
	b := poolLeague(t, "lonewolf", []league.Pairing{{White: "carol", Black: "dave"}})

	var got []string
	pool := NewPool("http://127.0.0.1:0", 3, []*league.League{a, b}, func(lg *league.League, ev *lichess.GameEvent) {
		got = append(got, lg.Name()+":"+ev.ID)
	})
	pool.dispatch(&lichess.GameEvent{ID: "g1"})

	if len(got) != 2 || got[0] != "team4545:g1" || got[1] != "lonewolf:g1" {
		t.Fatalf("dispatch = %v", got)
	}
}
