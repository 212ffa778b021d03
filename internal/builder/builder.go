package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// placeVerifyDelay is the pause after issuing a place before re-reading
// the target cell (§4.7: "issue place; wait 300 ms; verify").
const placeVerifyDelay = 300 * time.Millisecond

// maxPlaceAttempts is the per-voxel retry budget before falling back to
// scaffolding (§4.7).
const maxPlaceAttempts = 3

// Options selects which optional phases of a build run (§4.7).
type Options struct {
	PrepareGround bool
	ClearArea     bool
	Scaffolding   bool
	LayerByLayer  bool
}

// Runner executes a sub-plan produced by the Goal Resolver, satisfying a
// deficit in the blueprint's resource check (Phase 1). Mirrors
// station.PlanRunner: a minimal local interface instead of importing the
// executor package, which would cycle back through Builder for any
// structure-building MCP tool the executor itself exposes.
type Runner interface {
	RunPlan(ctx context.Context, plan agent.Plan) error
}

// Builder drives the Structure Builder (§4.7).
type Builder struct {
	facade worldfacade.Facade
	acct   *inventory.Accountant
	resolv *resolver.Resolver
	logger *slog.Logger
}

// New returns a Builder for the given collaborators.
func New(facade worldfacade.Facade, acct *inventory.Accountant, resolv *resolver.Resolver, logger *slog.Logger) *Builder {
	return &Builder{facade: facade, acct: acct, resolv: resolv, logger: logger}
}

// Build runs all four phases of §4.7 against bp, placed with (0,0,0) of
// the blueprint at origin.
func (b *Builder) Build(ctx context.Context, bp agent.Blueprint, origin agent.WorldPos, opts Options, runner Runner) error {
	if err := b.ensureResources(ctx, bp, runner); err != nil {
		return fmt.Errorf("resource check: %w", err)
	}
	if opts.PrepareGround {
		if err := b.prepareGround(ctx, bp, origin); err != nil {
			return fmt.Errorf("ground prep: %w", err)
		}
	}
	if opts.ClearArea {
		if err := b.clearArea(ctx, bp, origin); err != nil {
			return fmt.Errorf("clear area: %w", err)
		}
	}

	tasks := orderedPlacements(bp, origin)
	for _, t := range tasks {
		if err := b.placeVoxel(ctx, t, opts.Scaffolding); err != nil {
			return fmt.Errorf("placing %s at %s: %w", t.Block, t.Pos, err)
		}
	}
	return nil
}

// ensureResources is Phase 1: compute the blueprint's required multiset,
// diff it against held inventory, and delegate any deficit to the Goal
// Resolver one item at a time.
func (b *Builder) ensureResources(ctx context.Context, bp agent.Blueprint, runner Runner) error {
	snapshot, err := b.acct.Snapshot(ctx)
	if err != nil {
		return err
	}
	for item, need := range RequiredBlocks(bp) {
		if snapshot[item] >= need {
			continue
		}
		deficit := need - snapshot[item]
		plan, err := b.resolv.Resolve(ctx, agent.Goal{Item: item, Count: deficit}, snapshot)
		if err != nil {
			return fmt.Errorf("resolving %d x %s: %w", deficit, item, err)
		}
		if plan.Empty() {
			continue
		}
		if err := runner.RunPlan(ctx, plan); err != nil {
			return fmt.Errorf("producing %d x %s: %w", deficit, item, err)
		}
	}
	return nil
}

// prepareGround is Phase 2: for every (x,z) column of the blueprint's
// footprint, ensure the cell at origin height minus one (Y0-1) is a solid
// cube, filling it from the ground-fill preference list if it isn't.
func (b *Builder) prepareGround(ctx context.Context, bp agent.Blueprint, origin agent.WorldPos) error {
	columns := footprintColumns(bp)
	for _, col := range columns {
		pos := origin.Add(col.dx, -1, col.dz)
		current, err := b.facade.BlockAt(ctx, pos)
		if err != nil {
			return err
		}
		if IsSolidSupport(current) {
			continue
		}
		fill := groundFillItem(func(item agent.Item) int {
			held, err := b.acct.Held(ctx, item)
			if err != nil {
				return 0
			}
			return held
		})
		if err := b.placeAt(ctx, pos, fill, nil); err != nil {
			return fmt.Errorf("filling ground at %s: %w", pos, err)
		}
	}
	return nil
}

// clearArea is Phase 3: dig every voxel in the bounding box whose current
// world block differs from the blueprint target and isn't already air.
func (b *Builder) clearArea(ctx context.Context, bp agent.Blueprint, origin agent.WorldPos) error {
	for _, v := range bp.Voxel {
		pos := origin.Add(v.DX, v.DY, v.DZ)
		current, err := b.facade.BlockAt(ctx, pos)
		if err != nil {
			return err
		}
		if current == v.Block || current == "air" {
			continue
		}
		if err := b.facade.Dig(ctx, pos); err != nil {
			return fmt.Errorf("clearing %s: %w", pos, err)
		}
	}
	return nil
}

type placement struct {
	Pos   agent.WorldPos
	Block agent.Item
	Props map[string]string
}

// orderedPlacements is Phase 4: sort voxels by (y asc, x asc, z asc) so
// the below-neighbour support invariant holds for the common case.
func orderedPlacements(bp agent.Blueprint, origin agent.WorldPos) []placement {
	tasks := make([]placement, 0, len(bp.Voxel))
	for _, v := range bp.Voxel {
		tasks = append(tasks, placement{
			Pos:   origin.Add(v.DX, v.DY, v.DZ),
			Block: v.Block,
			Props: v.Properties,
		})
	}
	sort.Slice(tasks, func(i, j int) bool {
		a, c := tasks[i].Pos, tasks[j].Pos
		if a.Y != c.Y {
			return a.Y < c.Y
		}
		if a.X != c.X {
			return a.X < c.X
		}
		return a.Z < c.Z
	})
	return tasks
}

// placeVoxel runs the per-voxel placement algorithm (§4.7).
func (b *Builder) placeVoxel(ctx context.Context, t placement, scaffolding bool) error {
	current, err := b.facade.BlockAt(ctx, t.Pos)
	if err != nil {
		return err
	}
	if current == t.Block {
		return nil
	}

	occupied, err := b.facade.EntityPosition(ctx)
	if err != nil {
		return err
	}
	if occupied == t.Pos {
		if err := b.sidestep(ctx, t.Pos); err != nil {
			return err
		}
	}

	if !IsReplaceable(current) && current != "air" {
		if err := b.facade.Dig(ctx, t.Pos); err != nil {
			return fmt.Errorf("clearing existing %s: %w", current, err)
		}
	}

	err = b.placeAt(ctx, t.Pos, t.Block, t.Props)
	if err == nil {
		return nil
	}
	if !scaffolding {
		return err
	}

	// One scaffolding attempt: place a temporary support cube directly
	// below the target so a neighbour scan always has a solid
	// reference, then retry once more.
	b.logger.Warn("placement failed, scaffolding under target", "pos", t.Pos, "block", t.Block, "error", err)
	scaffold := t.Pos.Add(0, -1, 0)
	if scaffoldErr := b.placeAt(ctx, scaffold, "cobblestone", nil); scaffoldErr != nil {
		return fmt.Errorf("scaffolding under %s: %w (original: %v)", t.Pos, scaffoldErr, err)
	}
	return b.placeAt(ctx, t.Pos, t.Block, t.Props)
}

// sidestep micro-steps laterally off the target cell so the bot isn't
// standing where the next block needs to go.
func (b *Builder) sidestep(ctx context.Context, pos agent.WorldPos) error {
	return b.facade.PathTo(ctx, pos.Add(1, 0, 0))
}

// placeAt finds a solid reference neighbour, navigates within reach,
// equips block, places, and verifies — retried up to maxPlaceAttempts
// times.
func (b *Builder) placeAt(ctx context.Context, pos agent.WorldPos, block agent.Item, props map[string]string) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		ref, face, ok := b.findReference(ctx, pos)
		if !ok {
			return fmt.Errorf("no solid support neighbour for %s", pos)
		}
		if err := b.facade.PathTo(ctx, ref); err != nil {
			var navErr *agent.NavError
			if errors.As(err, &navErr) {
				return err
			}
			return backoff.Permanent(err)
		}
		if err := b.facade.Equip(ctx, block, "hand"); err != nil {
			return backoff.Permanent(fmt.Errorf("equipping %s: %w", block, err))
		}
		if err := b.facade.PlaceBlock(ctx, ref, face); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return backoff.Permanent(ctx.Err())
		case <-time.After(placeVerifyDelay):
		}

		got, err := b.facade.BlockAt(ctx, pos)
		if err != nil {
			return backoff.Permanent(err)
		}
		if got != block {
			return fmt.Errorf("placement unverified at %s: got %s, want %s", pos, got, block)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(50*time.Millisecond), maxPlaceAttempts-1))
}

// findReference scans pos's six neighbours in the wall-mounted-biased
// order and returns the first solid-cube support (§4.7, §9).
func (b *Builder) findReference(ctx context.Context, pos agent.WorldPos) (agent.WorldPos, worldfacade.FaceVector, bool) {
	for _, n := range worldfacade.WallNeighbors(pos) {
		block, err := b.facade.BlockAt(ctx, n.Pos)
		if err != nil {
			continue
		}
		if IsSolidSupport(block) {
			return n.Pos, n.Face, true
		}
	}
	return agent.WorldPos{}, worldfacade.FaceVector{}, false
}

type column struct{ dx, dz int }

// footprintColumns returns the distinct (x,z) offsets of the blueprint's
// voxels, in first-seen order. An (x,z) inside the DimX×DimZ rectangle
// that holds no voxel is not included.
func footprintColumns(bp agent.Blueprint) []column {
	seen := map[column]bool{}
	var cols []column
	for _, v := range bp.Voxel {
		c := column{v.DX, v.DZ}
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols
}
