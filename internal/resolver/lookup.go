package resolver

import (
	"sort"
	"strings"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// RecipeLookupResult is RecipeLookup's result, adapted from
// the teacher's RecipeLookupResponse: search hits, the matched recipe (if
// any), and what other recipes consume its output.
type RecipeLookupResult struct {
	SearchResults []agent.Recipe
	Recipe        *agent.Recipe
	Smelt         *agent.SmeltingRecipe
	UsedIn        []agent.Recipe
}

// RecipeLookup always reports both the substring matches of item over
// every recipe's output and the exact lookup: the first crafting recipe
// and the smelting recipe producing item (if any), plus the recipes that
// consume item.
func (r *Resolver) RecipeLookup(item agent.Item) RecipeLookupResult {
	var res RecipeLookupResult

	needle := strings.ToLower(string(item))
	for _, rec := range r.base.AllRecipes() {
		if strings.Contains(strings.ToLower(string(rec.OutputItem)), needle) {
			res.SearchResults = append(res.SearchResults, rec)
		}
	}
	sort.Slice(res.SearchResults, func(i, j int) bool { return res.SearchResults[i].ID < res.SearchResults[j].ID })

	if recs := r.recipesFor(item); len(recs) > 0 {
		rec := recs[0]
		res.Recipe = &rec
	}
	if sm, ok := r.base.SmeltFor(item); ok {
		res.Smelt = &sm
	}

	for _, rec := range r.base.AllRecipes() {
		for _, in := range rec.Inputs {
			if in.Item == item {
				res.UsedIn = append(res.UsedIn, rec)
				break
			}
		}
	}
	sort.Slice(res.UsedIn, func(i, j int) bool { return res.UsedIn[i].ID < res.UsedIn[j].ID })

	return res
}

// recipesFor exposes every recipe variant producing item (e.g. planks from
// any log color), bypassing the held-quantity tie-break RecipeFor applies
// during resolution — a lookup tool wants to show all of them, not pick
// one.
func (r *Resolver) recipesFor(item agent.Item) []agent.Recipe {
	var out []agent.Recipe
	for _, rec := range r.base.AllRecipes() {
		if rec.OutputItem == item {
			out = append(out, rec)
		}
	}
	return out
}
