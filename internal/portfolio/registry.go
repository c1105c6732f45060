package portfolio

import (
	"errors"
	"fmt"
	"strings"

	"indian-hedge-fund/internal/analyst"
	"indian-hedge-fund/internal/analyst/buffett"
	"indian-hedge-fund/internal/analyst/graham"
)

var ErrNoAnalysts = errors.New("no analysts selected")

// Entry is a selectable analyst.
type Entry struct {
	// Key is the selection key used in config and on the command line.
	Key    string
	Scorer analyst.Scorer
}

var registry = []Entry{
	{Key: "warren_buffett", Scorer: buffett.Scorer{}},
	{Key: "ben_graham", Scorer: graham.Scorer{}},
}

// Registry lists the available analysts in display order.
func Registry() []Entry {
	return append([]Entry(nil), registry...)
}

// Select resolves names to registry entries. A name matches an entry's key,
// its display name ("Benjamin Graham") or its status key, ignoring case.
// Repeats are dropped and order follows names.
func Select(names []string) ([]Entry, error) {
	var out []Entry
	seen := map[string]bool{}
	for _, name := range names {
		want := normalize(name)
		if want == "" {
			continue
		}
		e, ok := lookup(want)
		if !ok {
			return nil, fmt.Errorf("unknown analyst %q (available: %s)", name, strings.Join(keys(), ", "))
		}
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, ErrNoAnalysts
	}
	return out, nil
}

func lookup(want string) (Entry, bool) {
	for _, e := range registry {
		if want == e.Key || want == normalize(e.Scorer.Name()) || want == normalize(e.Scorer.Agent()) {
			return e, true
		}
	}
	return Entry{}, false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return strings.TrimSuffix(s, "_agent")
}

func keys() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.Key
	}
	return out
}
