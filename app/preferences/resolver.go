package preferences

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gobwas/glob"
	slogctx "github.com/veqryn/slog-context"
)

// Store lists stored preference rows.
type Store interface {
	ListPreferenceRows(ctx context.Context) ([]Row, error)
}

// Resolution is the outcome of resolving preferences for one URL.
// Blacklisted and Preferences are mutually exclusive; both zero means
// defaults apply.
type Resolution struct {
	Blacklisted bool
	Preferences *Preferences
}

// Resolver matches URLs against the stored pattern table.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve finds the preferences applying to `url`. When several patterns
// match, the longest pattern wins; equal lengths are broken by taking the
// lexicographically smallest pattern, so resolution never depends on row
// order. No matching pattern yields the zero Resolution.
func (r *Resolver) Resolve(ctx context.Context, url string) (Resolution, error) {
	rows, err := r.store.ListPreferenceRows(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("listing url preferences: %w", err)
	}

	var best *Row
	for i := range rows {
		row := &rows[i]

		g, err := glob.Compile(row.Pattern)
		if err != nil {
			slogctx.Warn(ctx, "Skipping unparseable preference pattern", "pattern", row.Pattern, "error", err)
			continue
		}
		if !g.Match(url) {
			continue
		}

		if best == nil || betterMatch(row.Pattern, best.Pattern) {
			best = row
		}
	}

	if best == nil {
		return Resolution{}, nil
	}

	if best.Value == Blacklist {
		return Resolution{Blacklisted: true}, nil
	}

	prefs := &Preferences{}
	if err := json.Unmarshal([]byte(best.Value), prefs); err != nil {
		return Resolution{}, &CorruptRowError{Pattern: best.Pattern, Err: err}
	}

	return Resolution{Preferences: prefs}, nil
}

func betterMatch(candidate, current string) bool {
	if len(candidate) != len(current) {
		return len(candidate) > len(current)
	}
	return candidate < current
}
