package leaguecfg

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed leagues.yaml
var defaultFiles embed.FS

// Clock is a league time control: Initial in minutes, Increment in seconds.
type Clock struct {
	Initial   int `yaml:"initial"`
	Increment int `yaml:"increment"`
}

// Scheduling anchors the rolling round window to a weekday/time cutoff.
type Scheduling struct {
	IsoWeekday   int `yaml:"iso_weekday"` // 1=Monday .. 7=Sunday
	Hour         int `yaml:"hour"`
	Minute       int `yaml:"minute"`
	WarningHours int `yaml:"warning_hours"`
}

type League struct {
	Name        string     `yaml:"name"`
	DisplayName string     `yaml:"display_name"`
	Variant     string     `yaml:"variant"`
	Rated       bool       `yaml:"rated"`
	Clock       Clock      `yaml:"clock"`
	Scheduling  Scheduling `yaml:"scheduling"`
	Channel     string     `yaml:"channel"` // chat channel id for announcements/warnings
}

type document struct {
	Leagues []League `yaml:"leagues"`
}

// Load reads the embedded league definitions and then applies overrides from
// dir if provided. Override files are applied in sorted order; a league with
// a name already seen replaces the earlier definition, new names append.
func Load(overrideDir string) ([]League, error) {
	raw, err := fs.ReadFile(defaultFiles, "leagues.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded leagues: %w", err)
	}
	leagues, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse embedded leagues: %w", err)
	}

	if strings.TrimSpace(overrideDir) != "" {
		leagues, err = applyDir(leagues, overrideDir)
		if err != nil {
			return nil, err
		}
	}

	if len(leagues) == 0 {
		return nil, fmt.Errorf("no leagues configured")
	}
	return leagues, nil
}

func applyDir(base []League, dir string) ([]League, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read league config dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	// Guard against the same league defined twice across override files.
	seen := make(map[string]string) // league name -> filename
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		overrides, err := parse(b)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		for _, l := range overrides {
			if prev, ok := seen[l.Name]; ok {
				return nil, fmt.Errorf("duplicate league %q in %s and %s", l.Name, prev, name)
			}
			seen[l.Name] = name
			base = upsert(base, l)
		}
	}
	return base, nil
}

func parse(b []byte) ([]League, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Leagues {
		l := &doc.Leagues[i]
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" {
			return nil, fmt.Errorf("league %d: name is required", i)
		}
		if l.Variant == "" {
			l.Variant = "standard"
		}
		if l.Scheduling.IsoWeekday < 1 || l.Scheduling.IsoWeekday > 7 {
			return nil, fmt.Errorf("league %s: iso_weekday must be 1..7", l.Name)
		}
		if l.Clock.Initial <= 0 {
			return nil, fmt.Errorf("league %s: clock.initial must be positive", l.Name)
		}
	}
	return doc.Leagues, nil
}

func upsert(list []League, l League) []League {
	for i := range list {
		if list[i].Name == l.Name {
			list[i] = l
			return list
		}
	}
	return append(list, l)
}
