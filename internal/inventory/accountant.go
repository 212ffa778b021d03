// Package inventory implements the Inventory Accountant (§4.2): a
// world-authoritative view of held items. It keeps no independent ledger
// — snapshot always re-reads from the world facade, since a cached
// ledger would drift from the external avatar's real state.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// Accountant wraps a worldfacade.Facade to answer inventory questions.
type Accountant struct {
	facade worldfacade.Facade
}

// New returns an Accountant backed by facade.
func New(facade worldfacade.Facade) *Accountant {
	return &Accountant{facade: facade}
}

// Snapshot freshly reads the held multiset from the world facade. Callers
// use it before planning and at every Task boundary (§4.2, §4.5); it is
// never cached across calls.
func (a *Accountant) Snapshot(ctx context.Context) (map[agent.Item]int, error) {
	slots, err := a.facade.InventoryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}
	snap := make(map[agent.Item]int, len(slots))
	for _, s := range slots {
		snap[s.Name] += s.Count
	}
	return snap, nil
}

// Held returns the count of item currently held.
func (a *Accountant) Held(ctx context.Context, item agent.Item) (int, error) {
	snap, err := a.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return snap[item], nil
}

// BestToolOfKind scans held items matching the given tool kind (by
// substring on the item name, e.g. "stone_pickaxe" matches "pickaxe"),
// computes tier by substring match against the ordered tier ladder, and
// returns the highest-tier match.
func (a *Accountant) BestToolOfKind(ctx context.Context, kind agent.ToolKind) (agent.Item, agent.Tier, bool, error) {
	snap, err := a.Snapshot(ctx)
	if err != nil {
		return "", agent.TierNone, false, err
	}

	var bestItem agent.Item
	bestTier := agent.Tier(-1)
	found := false
	for item, count := range snap {
		if count <= 0 {
			continue
		}
		itemKind := agent.ToolKindOf(item)
		if itemKind == "" {
			continue
		}
		if kind != agent.ToolAny && itemKind != kind {
			continue
		}
		tier := agent.ToolTier(item)
		if tier > bestTier {
			bestItem, bestTier, found = item, tier, true
		}
	}
	if !found {
		return "", agent.TierNone, false, nil
	}
	return bestItem, bestTier, true, nil
}

// ListItems returns held items (sorted by name for determinism) matching
// predicate.
func (a *Accountant) ListItems(ctx context.Context, predicate func(agent.Item, int) bool) ([]agent.Item, error) {
	snap, err := a.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var out []agent.Item
	for item, count := range snap {
		if predicate == nil || predicate(item, count) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
