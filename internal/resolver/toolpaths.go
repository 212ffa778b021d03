package resolver

import (
	"fmt"
	"sort"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// ToolUnlockPath describes what's needed to reach the next tool tier for
// one kind, repurposing the teacher's skill-unlock-path idea (next XP
// level -> recipes it unlocks) onto tool tiers (next tier -> blocks it
// newly makes minable).
type ToolUnlockPath struct {
	Kind          agent.ToolKind
	CurrentTier   agent.Tier
	NextTier      agent.Tier
	NextTool      agent.Item
	Recipe        agent.Recipe // empty if the next tier has no known recipe
	NewlyMinable  []agent.Item
}

// toolTierOrder is the ladder ToolTierPaths walks; golden tools are
// excluded since they share wooden's tier per ToolTier's mapping and
// aren't part of the seed recipe set.
var toolTierOrder = []agent.Tier{
	agent.TierWooden, agent.TierStone, agent.TierIron, agent.TierDiamond, agent.TierNetherite,
}

// ToolTierPaths reports, for every tool kind (pickaxe, axe, shovel, hoe,
// sword), what the next tier above heldTier[kind] unlocks — a kind absent
// from heldTier counts as TierNone, whose next tier is wooden: the recipe to craft it and which minable blocks newly
// become reachable because of the higher tier.
func (r *Resolver) ToolTierPaths(heldTier map[agent.ToolKind]agent.Tier) []ToolUnlockPath {
	var paths []ToolUnlockPath

	kinds := []agent.ToolKind{agent.ToolPickaxe, agent.ToolAxe, agent.ToolShovel, agent.ToolHoe, agent.ToolSword}
	for _, kind := range kinds {
		current := heldTier[kind]
		next, ok := nextTier(current)
		if !ok {
			continue
		}

		toolItem := agent.Item(fmt.Sprintf("%s_%s", next.String(), kind))
		recipes := r.recipesFor(toolItem)
		var rec agent.Recipe
		if len(recipes) > 0 {
			rec = recipes[0]
		}

		paths = append(paths, ToolUnlockPath{
			Kind:         kind,
			CurrentTier:  current,
			NextTier:     next,
			NextTool:     toolItem,
			Recipe:       rec,
			NewlyMinable: r.blocksNewlyMinable(kind, current, next),
		})
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i].Kind < paths[j].Kind })
	return paths
}

func nextTier(t agent.Tier) (agent.Tier, bool) {
	for i, tier := range toolTierOrder {
		if tier == t {
			if i+1 < len(toolTierOrder) {
				return toolTierOrder[i+1], true
			}
			return agent.TierNone, false
		}
	}
	return toolTierOrder[0], true
}

// blocksNewlyMinable reports blocks whose tool requirement is satisfied by
// next but not by current, for the given kind.
func (r *Resolver) blocksNewlyMinable(kind agent.ToolKind, current, next agent.Tier) []agent.Item {
	var out []agent.Item
	for _, block := range r.base.ToolGatedBlocks() {
		req := r.base.ToolRequirementFor(block)
		if req.ToolKind != kind {
			continue
		}
		if req.MinTier > current && req.MinTier <= next {
			out = append(out, block)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
