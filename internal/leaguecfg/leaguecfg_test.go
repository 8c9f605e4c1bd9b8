package leaguecfg

import (
	"os"
	"path/filepath"
	"testing"
)

func writeOverride(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func findLeague(t *testing.T, leagues []League, name string) League {
	t.Helper()
	for _, l := range leagues {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("league %q not found in %+v", name, leagues)
	return League{}
}

func TestLoad_EmbeddedDefaults(t *testing.T) {
	leagues, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(leagues) < 2 {
		t.Fatalf("leagues = %d, want at least 2", len(leagues))
	}

	team := findLeague(t, leagues, "team4545")
	if team.Clock.Initial != 45 || team.Clock.Increment != 45 {
		t.Fatalf("team4545 clock = %+v", team.Clock)
	}
	if team.Scheduling.IsoWeekday != 1 || team.Scheduling.Hour != 11 {
		t.Fatalf("team4545 scheduling = %+v", team.Scheduling)
	}
	if !team.Rated || team.Variant != "standard" {
		t.Fatalf("team4545 rules = rated:%v variant:%q", team.Rated, team.Variant)
	}

	wolf := findLeague(t, leagues, "lonewolf")
	if wolf.Clock.Initial != 30 || wolf.Clock.Increment != 30 {
		t.Fatalf("lonewolf clock = %+v", wolf.Clock)
	}
}

func TestLoad_OverridesReplaceAndAppend(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "10-team.yaml", `
leagues:
  - name: team4545
    display_name: Team Battle
    rated: true
    clock: {initial: 60, increment: 30}
    scheduling: {iso_weekday: 2, hour: 9, minute: 0, warning_hours: 12}
`)
	writeOverride(t, dir, "20-blitz.yaml", `
leagues:
  - name: blitzleague
    rated: true
    clock: {initial: 5, increment: 3}
    scheduling: {iso_weekday: 6, hour: 20, minute: 0, warning_hours: 6}
`)

	leagues, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	team := findLeague(t, leagues, "team4545")
	if team.Clock.Initial != 60 || team.Scheduling.IsoWeekday != 2 {
		t.Fatalf("override not applied: %+v", team)
	}
	blitz := findLeague(t, leagues, "blitzleague")
	if blitz.Variant != "standard" {
		t.Fatalf("variant default not applied: %q", blitz.Variant)
	}
}

func TestLoad_DuplicateLeagueAcrossOverrideFiles(t *testing.T) {
	dir := t.TempDir()
	doc := `
leagues:
  - name: dupe
    rated: true
    clock: {initial: 15, increment: 10}
    scheduling: {iso_weekday: 1, hour: 10, minute: 0, warning_hours: 6}
`
	writeOverride(t, dir, "a.yaml", doc)
	writeOverride(t, dir, "b.yaml", doc)

	if _, err := Load(dir); err == nil {
		t.Fatalf("duplicate league across files must fail")
	}
}

func TestLoad_RejectsInvalidDefinitions(t *testing.T) {
	for name, doc := range map[string]string{
		"missing name": `
leagues:
  - rated: true
    clock: {initial: 15, increment: 10}
    scheduling: {iso_weekday: 1, hour: 10}
`,
		"bad weekday": `
leagues:
  - name: broken
    clock: {initial: 15, increment: 10}
    scheduling: {iso_weekday: 8, hour: 10}
`,
		"zero clock": `
leagues:
  - name: broken
    clock: {initial: 0, increment: 10}
    scheduling: {iso_weekday: 1, hour: 10}
`,
	} {
		dir := t.TempDir()
		writeOverride(t, dir, "bad.yaml", doc)
		if _, err := Load(dir); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
