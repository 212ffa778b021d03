package resolver

import (
	"sort"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// ComponentUse is one recipe or smelting conversion that consumes item,
// and how much of it each run needs — the teacher's component_uses logic
// with the market-price lookup and skill gating dropped.
type ComponentUse struct {
	Recipe           agent.Recipe
	Smelt            *agent.SmeltingRecipe
	QuantityPerCraft int
}

// ComponentUses lists every recipe and smelting conversion that consumes
// item, sorted to prefer recipes with fewer total inputs first (the
// teacher's "prefer simpler recipes" default tiebreak).
func (r *Resolver) ComponentUses(item agent.Item) []ComponentUse {
	var uses []ComponentUse

	for _, rec := range r.base.AllRecipes() {
		for _, in := range rec.Inputs {
			if in.Item == item {
				uses = append(uses, ComponentUse{Recipe: rec, QuantityPerCraft: in.Quantity})
				break
			}
		}
	}

	for _, sm := range r.base.AllSmeltingRecipes() {
		if sm.InputItem == item {
			s := sm
			uses = append(uses, ComponentUse{
				Recipe:           agent.Recipe{OutputItem: sm.OutputItem, OutputCount: 1},
				Smelt:            &s,
				QuantityPerCraft: 1,
			})
			continue
		}
		for _, alt := range sm.AlternateInputs {
			if alt == item {
				s := sm
				uses = append(uses, ComponentUse{
					Recipe:           agent.Recipe{OutputItem: sm.OutputItem, OutputCount: 1},
					Smelt:            &s,
					QuantityPerCraft: 1,
				})
				break
			}
		}
	}

	sort.Slice(uses, func(i, j int) bool {
		return len(uses[i].Recipe.Inputs) < len(uses[j].Recipe.Inputs)
	})
	return uses
}
