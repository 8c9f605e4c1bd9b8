package league

import (
	"testing"
	"time"

	"github.com/teamchess/leaguebot/internal/leaguecfg"
)

func TestComputeWindow_AnchorsToPreviousCutoff(t *testing.T) {
	sched := leaguecfg.Scheduling{IsoWeekday: 1, Hour: 11, Minute: 0, WarningHours: 24}
	ref := time.Date(2016, 4, 7, 0, 0, 0, 0, time.UTC) // Thursday

	w := ComputeWindow(sched, ref)

	wantStart := time.Date(2016, 4, 4, 11, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2016, 4, 11, 11, 0, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", w.Start, wantStart)
	}
	if !w.End.Equal(wantEnd) {
		t.Fatalf("end = %v, want %v", w.End, wantEnd)
	}
	if !w.Warning.Equal(wantEnd.Add(-24 * time.Hour)) {
		t.Fatalf("warning = %v, want %v", w.Warning, wantEnd.Add(-24*time.Hour))
	}
}

func TestComputeWindow_Deterministic(t *testing.T) {
	sched := leaguecfg.Scheduling{IsoWeekday: 3, Hour: 17, Minute: 30, WarningHours: 12}
	ref := time.Date(2023, 9, 15, 8, 45, 12, 0, time.UTC)

	a := ComputeWindow(sched, ref)
	b := ComputeWindow(sched, ref)
	if a != b {
		t.Fatalf("same inputs produced different windows: %+v vs %+v", a, b)
	}
	if a.Start.Weekday() != time.Wednesday || a.End.Weekday() != time.Wednesday {
		t.Fatalf("window weekdays = %v/%v, want Wednesday", a.Start.Weekday(), a.End.Weekday())
	}
	if got := a.End.Sub(a.Start); got != 7*24*time.Hour {
		t.Fatalf("window length = %v, want 168h", got)
	}
}

func TestComputeWindow_ReferenceOnCutoffDay(t *testing.T) {
	sched := leaguecfg.Scheduling{IsoWeekday: 1, Hour: 11, Minute: 0, WarningHours: 24}

	// Before the cutoff on the cutoff day: the window starts last Monday.
	before := time.Date(2016, 4, 11, 10, 59, 0, 0, time.UTC)
	w := ComputeWindow(sched, before)
	if want := time.Date(2016, 4, 4, 11, 0, 0, 0, time.UTC); !w.Start.Equal(want) {
		t.Fatalf("pre-cutoff start = %v, want %v", w.Start, want)
	}

	// At or past the cutoff: the new round starts now.
	at := time.Date(2016, 4, 11, 11, 0, 0, 0, time.UTC)
	w = ComputeWindow(sched, at)
	if !w.Start.Equal(at) {
		t.Fatalf("at-cutoff start = %v, want %v", w.Start, at)
	}
}

func TestRoundWindow_Contains(t *testing.T) {
	w := RoundWindow{
		Start: time.Date(2016, 4, 4, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2016, 4, 11, 11, 0, 0, 0, time.UTC),
	}
	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Fatalf("window must include its bounds")
	}
	if w.Contains(w.Start.Add(-time.Second)) {
		t.Fatalf("window must exclude instants before start")
	}
	if w.Contains(w.End.Add(time.Second)) {
		t.Fatalf("window must exclude instants after end")
	}
}
