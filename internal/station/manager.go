// Package station implements the Station Manager (§4.10): satisfying an
// EnsureStation task by finding a placed station nearby, placing a held
// one, or producing one from scratch and placing that.
package station

import (
	"context"
	"fmt"

	"github.com/rsned/minebot-agent/internal/builder"
	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// searchRadius is how far the Manager looks for an already-placed station
// before falling back to placing or producing one (§4.10).
const searchRadius = 32.0

// maxPlacementAttempts bounds the offsets tried around the avatar when
// placing a held station item.
const maxPlacementAttempts = 10

// PlanRunner executes a Plan the Manager produces when no station item is
// held and none exists in the world. The Task Executor satisfies this;
// Manager depends only on the interface to avoid an import cycle back to
// the executor package, which itself drives EnsureStationTask through the
// Manager.
type PlanRunner interface {
	RunPlan(ctx context.Context, plan agent.Plan) error
}

// Manager satisfies EnsureStationTask.
type Manager struct {
	facade   worldfacade.Facade
	resolver *resolver.Resolver
	acct     *inventory.Accountant
}

// New returns a Manager backed by facade, resolver, and acct.
func New(facade worldfacade.Facade, rslv *resolver.Resolver, acct *inventory.Accountant) *Manager {
	return &Manager{facade: facade, resolver: rslv, acct: acct}
}

// Ensure makes a station of kind reachable: locating one in the world,
// placing a held item, or — via runner — producing and placing one.
// Crafting_table's own recipe (4 planks, no station) means this never
// recurses more than one level deep for that kind, matching §4.10's
// "bootstraps without recursion" note.
func (m *Manager) Ensure(ctx context.Context, kind agent.StationKind, runner PlanRunner) error {
	item := agent.Item(kind)

	if found, err := m.findNearby(ctx, item); err != nil {
		return err
	} else if found {
		return nil
	}

	held, err := m.acct.Held(ctx, item)
	if err != nil {
		return err
	}
	if held > 0 {
		return m.place(ctx, item)
	}

	if err := m.produce(ctx, item, runner); err != nil {
		return err
	}
	return m.place(ctx, item)
}

// findNearby searches for an existing placed station within searchRadius
// and, if found, paths within reach of it.
func (m *Manager) findNearby(ctx context.Context, item agent.Item) (bool, error) {
	block, err := m.facade.FindBlock(ctx, item, searchRadius)
	if err != nil {
		return false, fmt.Errorf("searching for %s: %w", item, err)
	}
	if block == nil {
		return false, nil
	}
	if err := m.facade.PathTo(ctx, block.Pos); err != nil {
		return false, fmt.Errorf("pathing to %s: %w", item, err)
	}
	return true, nil
}

// produce resolves a one-unit goal for item against the current inventory
// snapshot and runs the resulting plan, the recursive fallback of §4.10's
// third step.
func (m *Manager) produce(ctx context.Context, item agent.Item, runner PlanRunner) error {
	snapshot, err := m.acct.Snapshot(ctx)
	if err != nil {
		return err
	}
	plan, err := m.resolver.Resolve(ctx, agent.Goal{Item: item, Count: 1}, snapshot)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", item, err)
	}
	if err := runner.RunPlan(ctx, plan); err != nil {
		return fmt.Errorf("producing %s: %w", item, err)
	}
	return nil
}

// place tries up to maxPlacementAttempts offsets around the avatar's
// current position, requiring a solid block beneath the candidate cell
// and an empty candidate cell, and verifies the placement afterward.
func (m *Manager) place(ctx context.Context, item agent.Item) error {
	pos, err := m.facade.EntityPosition(ctx)
	if err != nil {
		return err
	}

	candidates := placementCandidates(pos)
	if err := m.facade.Equip(ctx, item, "hand"); err != nil {
		return &agent.PlacementFailedError{Pos: pos, Reason: agent.PlacementEquipFailed}
	}

	var lastErr error
	for i, cand := range candidates {
		if i >= maxPlacementAttempts {
			break
		}

		below := cand.Add(0, -1, 0)
		ground, err := m.facade.BlockAt(ctx, below)
		if err != nil || !builder.IsSolidSupport(ground) {
			continue
		}
		existing, err := m.facade.BlockAt(ctx, cand)
		if err != nil || (existing != "" && existing != agent.Item("air")) {
			continue
		}

		if err := m.facade.PlaceBlock(ctx, below, worldfacade.FaceVector{DX: 0, DY: 1, DZ: 0}); err != nil {
			lastErr = err
			continue
		}
		placed, err := m.facade.BlockAt(ctx, cand)
		if err != nil || placed != item {
			lastErr = &agent.PlacementFailedError{Pos: cand, Reason: agent.PlacementVerifyMismatch}
			continue
		}
		return nil
	}

	if lastErr != nil {
		return lastErr
	}
	return &agent.PlacementFailedError{Pos: pos, Reason: agent.PlacementNoReference}
}

// placementCandidates builds maxPlacementAttempts candidate cells around
// pos: the six axis-aligned neighbours plus four diagonal ground-level
// offsets, per §4.10's "try up to 10 offsets around the bot".
func placementCandidates(pos agent.WorldPos) []agent.WorldPos {
	out := make([]agent.WorldPos, 0, maxPlacementAttempts)
	for _, n := range worldfacade.Neighbors(pos) {
		out = append(out, n.Pos)
	}
	out = append(out,
		pos.Add(1, 0, 1), pos.Add(1, 0, -1),
		pos.Add(-1, 0, 1), pos.Add(-1, 0, -1),
	)
	return out
}
