package resolver

import (
	"sort"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// CraftableMatch is a recipe the current inventory can run at least once,
// adapted from the teacher's CraftableMatch (skill/profit fields dropped:
// this domain has neither).
type CraftableMatch struct {
	Recipe    agent.Recipe
	CanCraft  int // how many runs the held inventory supports right now
}

// PartialMatch is a recipe missing some components, with what's short.
type PartialMatch struct {
	Recipe     agent.Recipe
	Have       []agent.Item
	Missing    []agent.RecipeComponent
	MatchRatio float64
}

// Query reports, against a held-items snapshot, which recipes are fully
// craftable right now and which are only partially satisfied — the
// teacher's craft_query logic, stripped of the teacher's market/profit and
// skill-gating machinery since neither applies here.
func (r *Resolver) Query(snapshot map[agent.Item]int) (craftable []CraftableMatch, partial []PartialMatch) {
	for _, rec := range r.base.AllRecipes() {
		have, missing, canCraft := matchComponents(rec, snapshot)
		if len(missing) == 0 {
			craftable = append(craftable, CraftableMatch{Recipe: rec, CanCraft: canCraft})
			continue
		}
		if len(have) == 0 {
			continue
		}
		partial = append(partial, PartialMatch{
			Recipe:     rec,
			Have:       have,
			Missing:    missing,
			MatchRatio: float64(len(have)) / float64(len(rec.Inputs)),
		})
	}

	sort.Slice(craftable, func(i, j int) bool { return craftable[i].Recipe.ID < craftable[j].Recipe.ID })
	sort.Slice(partial, func(i, j int) bool {
		if partial[i].MatchRatio != partial[j].MatchRatio {
			return partial[i].MatchRatio > partial[j].MatchRatio
		}
		return partial[i].Recipe.ID < partial[j].Recipe.ID
	})
	return craftable, partial
}

// matchComponents splits a recipe's inputs into held and missing against
// snapshot, and computes how many full runs the snapshot currently
// supports (0 if any input is short).
func matchComponents(rec agent.Recipe, snapshot map[agent.Item]int) (have []agent.Item, missing []agent.RecipeComponent, canCraft int) {
	canCraft = -1
	for _, in := range rec.Inputs {
		held := snapshot[in.Item]
		if held >= in.Quantity {
			have = append(have, in.Item)
		} else {
			missing = append(missing, agent.RecipeComponent{Item: in.Item, Quantity: in.Quantity - held})
		}
		if in.Quantity > 0 {
			runs := held / in.Quantity
			if canCraft < 0 || runs < canCraft {
				canCraft = runs
			}
		}
	}
	if canCraft < 0 {
		canCraft = 0
	}
	if len(missing) > 0 {
		canCraft = 0
	}
	return have, missing, canCraft
}
