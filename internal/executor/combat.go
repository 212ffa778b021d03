package executor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// meleeRange is the distance within which Attack stops closing and
// starts swinging (§4.11).
const meleeRange = 3.5

// lowHealthAbort is the own-health floor below which Attack gives up
// (§4.11). stuckThreshold is the source's stuckCount heuristic (20
// attempts x 500ms), reinterpreted per §9's design note as "no health
// progress on the target for 10s => abort" — attemptInterval paces the
// loop so iteration count and wall time agree. Both surface as
// TimeoutAttack alongside the hard/no-progress time caps of §5: all are
// "this Attack gave up" signals within the same closed operation tag.
const (
	lowHealthAbort  = 10.0
	attemptInterval = 500 * time.Millisecond
	stuckThreshold  = 10 * time.Second
	healthEpsilon   = 0.01
)

// Attack is the Combat driver (§4.11): not part of the Task/Plan system
// (the MCP attack tool invokes it directly), it
// equips the best held weapon and loops find-nearest/move/attack against
// mobType within radius until it dies, no more are found, or a give-up
// condition trips.
func (e *Executor) Attack(ctx context.Context, mobType string, radius float64, maxDuration time.Duration) error {
	weapon, ok, err := e.validate.BestWeapon(ctx)
	if err != nil {
		return err
	}
	if ok {
		if err := e.facade.Equip(ctx, weapon, "hand"); err != nil {
			return fmt.Errorf("equipping weapon: %w", err)
		}
	}

	deadline := time.Now().Add(maxDuration)
	foundAny := false
	lastTargetHealth := math.MaxFloat64
	lastProgress := time.Now()

	for {
		if e.aborted.Load() {
			return &agent.AbortedError{}
		}
		if time.Now().After(deadline) {
			return &agent.TimeoutError{Operation: agent.TimeoutAttack}
		}

		health, err := e.facade.Health(ctx)
		if err != nil {
			return err
		}
		if health < lowHealthAbort {
			return &agent.TimeoutError{Operation: agent.TimeoutAttack}
		}

		target, err := e.facade.FindEntity(ctx, mobType, radius)
		if err != nil {
			return fmt.Errorf("finding %s: %w", mobType, err)
		}
		if target == nil {
			if foundAny {
				return nil
			}
			return &agent.ResourceExhaustedError{Block: agent.Item(mobType)}
		}
		foundAny = true

		if target.Health < lastTargetHealth-healthEpsilon {
			lastTargetHealth = target.Health
			lastProgress = time.Now()
		} else if time.Since(lastProgress) > stuckThreshold {
			return &agent.TimeoutError{Operation: agent.TimeoutAttack}
		}

		pos, err := e.facade.EntityPosition(ctx)
		if err != nil {
			return err
		}

		if distance(pos, target.Pos) > meleeRange {
			if err := e.navigateTo(ctx, target.Pos); err != nil {
				return err
			}
		} else if err := e.facade.Attack(ctx, worldfacade.Entity{Pos: target.Pos, Name: target.Name}); err != nil {
			return fmt.Errorf("attacking %s: %w", mobType, err)
		}

		if err := sleepOrDone(ctx, attemptInterval); err != nil {
			return err
		}
	}
}

func distance(a, b agent.WorldPos) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
