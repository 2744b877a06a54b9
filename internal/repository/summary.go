package repository

import (
	"context"
	"sort"

	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/provider"
)

// SummaryRow pairs a provider with how many of its entities are tracked.
type SummaryRow struct {
	Provider provider.Info
	Tracked  int
}

// Summary lists ordered providers with their tracked counts. Tracked keys
// without a registered provider are appended with a zero-value provider
// carrying only the key.
func (r *Repository) Summary(ctx context.Context) ([]SummaryRow, error) {
	counts, err := r.tracking.Counts(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[entity.Key]bool{}
	var rows []SummaryRow
	for _, info := range r.registry.Ordered() {
		seen[info.Key()] = true
		rows = append(rows, SummaryRow{Provider: info, Tracked: counts[info.Key()]})
	}
	var orphans []entity.Key
	for key := range counts {
		if !seen[key] {
			orphans = append(orphans, key)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].String() < orphans[j].String() })
	for _, key := range orphans {
		rows = append(rows, SummaryRow{Provider: provider.Info{Type: key.Type, Bundle: key.Bundle, Tracking: true}, Tracked: counts[key]})
	}
	return rows, nil
}
