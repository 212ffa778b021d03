package resolver

import (
	"errors"

	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// chooseFuel picks a fuel item for sm by walking the fixed priority list
// (§4.4 tie-break: coal > charcoal > oak_log > spruce_log > birch_log >
// oak_planks > stick), skipping any candidate that is not registered as
// fuel, would create a cycle (e.g. charcoal trying to fuel its own
// smelt), or has no production mode and isn't already held. substitutedFrom
// is set only when the chosen fuel replaced a cyclic candidate, matching
// FuelPlan's documented meaning — plain unavailability (coal, with no ore
// in this knowledge base) doesn't count as a substitution.
func (r *Resolver) chooseFuel(sm agent.SmeltingRecipe, dctx *discoverCtx) (fuelItem agent.Item, substitutedFrom agent.Item, err error) {
	var lastErr error
	for _, name := range knowledge.FuelPriority {
		candidate := agent.Item(name)
		if r.base.FuelTicks(candidate) <= 0 {
			continue
		}

		n, derr := r.discoverItem(candidate, dctx)
		if derr != nil {
			var cycle *agent.CycleError
			if errors.As(derr, &cycle) && substitutedFrom == "" {
				substitutedFrom = candidate
			}
			lastErr = derr
			continue
		}

		if n.mode == modeUnsatisfiable && dctx.held(candidate) <= 0 {
			continue
		}

		return candidate, substitutedFrom, nil
	}

	if lastErr != nil {
		return "", "", lastErr
	}
	return "", "", &agent.UnsatisfiableError{Item: sm.OutputItem}
}
