package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// gatherSearchDistance is the find_block radius for Gather/Harvest,
// wider than the Station Manager's search since ordinary terrain blocks
// are far more common than a placed station (§4.8).
const gatherSearchDistance = 64.0

// craftDelay is the brief pause between successive craft primitive
// invocations within one CraftTask (§4.9).
const craftDelay = 100 * time.Millisecond

// smeltHardCap and smeltNoProgressCap bound the Smelt driver's poll loop
// (§4.6, §5).
const (
	smeltHardCap       = 5 * time.Minute
	smeltNoProgressCap = 30 * time.Second
)

// gather implements the Gather driver (§4.8).
func (e *Executor) gather(ctx context.Context, t agent.GatherTask) error {
	result, err := e.validate.HasAdequate(ctx, t.Block)
	if err != nil {
		return err
	}
	if !result.Adequate {
		// The Resolver should have inserted an EnsureTool ahead of
		// this task; reaching here means that didn't happen.
		return &agent.ToolMissingError{Required: result.Required}
	}

	for i := 0; i < t.Count; i++ {
		if e.aborted.Load() {
			return &agent.AbortedError{}
		}

		block, err := e.facade.FindBlock(ctx, t.Block, gatherSearchDistance)
		if err != nil {
			return fmt.Errorf("finding %s: %w", t.Block, err)
		}
		if block == nil {
			return &agent.ResourceExhaustedError{Block: t.Block}
		}

		if err := e.navigateTo(ctx, block.Pos); err != nil {
			return err
		}
		if result.Tool != "" {
			if err := e.facade.Equip(ctx, result.Tool, "hand"); err != nil {
				return fmt.Errorf("equipping %s: %w", result.Tool, err)
			}
		}
		if err := e.facade.Dig(ctx, block.Pos); err != nil {
			return fmt.Errorf("digging %s: %w", t.Block, err)
		}

		if err := sleepOrDone(ctx, worldfacade.DropPickupDelay); err != nil {
			return err
		}
	}

	return nil
}

// harvest implements the Harvest variant of §4.8: identical mechanics to
// Gather, minus the tool adequacy check — crops have no tool requirement
// in the Knowledge Base.
func (e *Executor) harvest(ctx context.Context, t agent.HarvestTask) error {
	for i := 0; i < t.Count; i++ {
		if e.aborted.Load() {
			return &agent.AbortedError{}
		}

		block, err := e.facade.FindBlock(ctx, t.Crop, gatherSearchDistance)
		if err != nil {
			return fmt.Errorf("finding %s: %w", t.Crop, err)
		}
		if block == nil {
			return &agent.ResourceExhaustedError{Block: t.Crop}
		}

		if err := e.navigateTo(ctx, block.Pos); err != nil {
			return err
		}
		if err := e.facade.Dig(ctx, block.Pos); err != nil {
			return fmt.Errorf("harvesting %s: %w", t.Crop, err)
		}
		e.replant(ctx, t.Crop, block.Pos)

		if err := sleepOrDone(ctx, worldfacade.DropPickupDelay); err != nil {
			return err
		}
	}

	return nil
}

// replant is Harvest's best-effort restocking of the just-dug crop cell
// (§9: replant failures are logged, never propagated — the source's own
// replant path is unreliable, and the spec keeps that behavior rather
// than making it load-bearing). The Knowledge Base doesn't model a
// distinct seed item per crop, so the crop's own item name is replanted.
func (e *Executor) replant(ctx context.Context, crop agent.Item, pos agent.WorldPos) {
	if err := e.facade.Equip(ctx, crop, "hand"); err != nil {
		e.logger.Warn("replant: equip failed", "crop", crop, "error", err)
		return
	}
	if err := e.facade.PlaceBlock(ctx, pos.Add(0, -1, 0), worldfacade.FaceVector{DX: 0, DY: 1, DZ: 0}); err != nil {
		e.logger.Warn("replant: place failed", "crop", crop, "error", err)
	}
}

// craft implements the Craft driver (§4.9).
func (e *Executor) craft(ctx context.Context, t agent.CraftTask) error {
	if t.Recipe.RequiresStation != agent.StationNone {
		if err := e.stations.Ensure(ctx, t.Recipe.RequiresStation, subRunner{e}); err != nil {
			return err
		}
	}

	snapshot, err := e.acct.Snapshot(ctx)
	if err != nil {
		return err
	}
	for _, in := range t.Recipe.Inputs {
		if snapshot[in.Item] < in.Quantity*t.Repetitions {
			// The Resolver should have ensured sufficiency; reaching
			// here means the world changed out from under the plan.
			return &agent.UnsatisfiableError{Item: t.Recipe.OutputItem}
		}
	}

	for i := 0; i < t.Repetitions; i++ {
		if e.aborted.Load() {
			return &agent.AbortedError{}
		}
		if err := e.facade.Craft(ctx, t.Recipe); err != nil {
			return fmt.Errorf("crafting %s: %w", t.Recipe.OutputItem, err)
		}
		if i < t.Repetitions-1 {
			if err := sleepOrDone(ctx, craftDelay); err != nil {
				return err
			}
		}
	}

	return nil
}

// smelt implements the Smelt driver's execution half (§4.6, §5): open the
// furnace, load input and fuel, then poll the output slot until it
// reaches t.Count or a timeout elapses.
func (e *Executor) smelt(ctx context.Context, t agent.SmeltTask) error {
	furnace, err := e.facade.FindBlock(ctx, agent.Item(agent.StationFurnace), worldfacade.DefaultReach)
	if err != nil {
		return fmt.Errorf("finding furnace: %w", err)
	}
	if furnace == nil {
		return &agent.ResourceExhaustedError{Block: agent.Item(agent.StationFurnace)}
	}

	container, err := e.facade.OpenContainer(ctx, furnace.Pos)
	if err != nil {
		return fmt.Errorf("opening furnace: %w", err)
	}
	defer container.Close(ctx)

	if err := container.PutInput(ctx, t.SmeltRecipe.InputItem, t.Count); err != nil {
		return fmt.Errorf("loading input: %w", err)
	}
	if t.Fuel.FuelItem != "" && t.Fuel.FuelCount > 0 {
		if err := container.PutFuel(ctx, t.Fuel.FuelItem, t.Fuel.FuelCount); err != nil {
			return fmt.Errorf("loading fuel: %w", err)
		}
	}

	hardDeadline := time.Now().Add(smeltHardCap)
	lastProgress := time.Now()
	produced := 0

	for produced < t.Count {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-container.Updates():
		case <-time.After(time.Second):
		}

		_, n, err := container.OutputItem(ctx)
		if err != nil {
			return fmt.Errorf("reading furnace output: %w", err)
		}
		if n > produced {
			produced = n
			lastProgress = time.Now()
		}

		now := time.Now()
		if now.After(hardDeadline) || now.Sub(lastProgress) > smeltNoProgressCap {
			return &agent.TimeoutError{Operation: agent.TimeoutSmelt}
		}
	}

	_, _, err = container.TakeOutput(ctx)
	return err
}

// ensureTool satisfies an EnsureToolTask: a no-op if Tool is already
// held (the usual case, since the Resolver inlined the tool's own
// production chain earlier in the plan); otherwise a defensive fallback
// that resolves and runs a one-off sub-plan for it, for a caller invoking
// this task in isolation (e.g. a direct mcpserver tool call).
func (e *Executor) ensureTool(ctx context.Context, t agent.EnsureToolTask) error {
	held, err := e.acct.Held(ctx, t.Tool)
	if err != nil {
		return err
	}
	if held > 0 {
		return nil
	}

	snapshot, err := e.acct.Snapshot(ctx)
	if err != nil {
		return err
	}
	plan, err := e.resolve.Resolve(ctx, agent.Goal{Item: t.Tool, Count: 1}, snapshot)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", t.Tool, err)
	}
	return e.runTasks(ctx, plan.Tasks)
}

// deliver implements DeliverTask: path to the target player and toss the
// item their way.
func (e *Executor) deliver(ctx context.Context, t agent.DeliverTask) error {
	player, err := e.facade.PlayerEntity(ctx, string(t.To))
	if err != nil {
		return fmt.Errorf("locating %s: %w", t.To, err)
	}
	if player == nil {
		return &agent.ResourceExhaustedError{Block: agent.Item(t.To)}
	}
	if err := e.navigateTo(ctx, player.Pos); err != nil {
		return err
	}
	if err := e.facade.Toss(ctx, t.Item, t.Count); err != nil {
		return fmt.Errorf("delivering %s: %w", t.Item, err)
	}
	return nil
}

// navigateTo retries PathTo against the §7 retry policy on NavError.
func (e *Executor) navigateTo(ctx context.Context, pos agent.WorldPos) error {
	return backoff.Retry(func() error {
		err := e.facade.PathTo(ctx, pos)
		if err == nil {
			return nil
		}
		var navErr *agent.NavError
		if errors.As(err, &navErr) {
			return err
		}
		return backoff.Permanent(err)
	}, retryPolicy(ctx))
}

// sleepOrDone waits for d, or returns ctx.Err() if it's cancelled first.
func sleepOrDone(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
