package builder

import (
	"testing"

	"github.com/rsned/minebot-agent/pkg/agent"
)

func TestIsSolidSupport_Whitelist(t *testing.T) {
	for _, item := range []agent.Item{"stone", "dirt", "cobblestone", "grass_block"} {
		if !IsSolidSupport(item) {
			t.Errorf("IsSolidSupport(%q) = false, want true", item)
		}
	}
}

func TestIsSolidSupport_PatternFamilies(t *testing.T) {
	for _, item := range []agent.Item{"oak_planks", "spruce_log", "iron_ore", "diamond_ore"} {
		if !IsSolidSupport(item) {
			t.Errorf("IsSolidSupport(%q) = false, want true", item)
		}
	}
}

func TestIsSolidSupport_BlacklistOverridesPattern(t *testing.T) {
	// Wood-named blocks that are not full cubes (stairs, doors, fences,
	// trapdoors) and container/station blocks hit the blacklist and are
	// never solid.
	for _, item := range []agent.Item{"oak_stairs", "oak_door", "oak_fence", "oak_trapdoor", "crafting_table", "furnace", "chest"} {
		if IsSolidSupport(item) {
			t.Errorf("IsSolidSupport(%q) = true, want false", item)
		}
	}
}

func TestIsSolidSupport_SnowLayerIsNotSnowBlock(t *testing.T) {
	if !IsSolidSupport(agent.Item("snow_block")) {
		t.Error("snow_block should be solid")
	}
	if IsSolidSupport(agent.Item("snow")) {
		t.Error("snow layer should not be solid")
	}
}

func TestIsReplaceable_PlantsAndAir(t *testing.T) {
	for _, item := range []agent.Item{"grass", "tall_grass", "fern", "dead_bush", "vine", "air"} {
		if !IsReplaceable(item) {
			t.Errorf("IsReplaceable(%q) = false, want true", item)
		}
	}
}

func TestIsReplaceable_SolidBlockIsNot(t *testing.T) {
	if IsReplaceable(agent.Item("stone")) {
		t.Error("stone should not be replaceable")
	}
}

func TestGroundFillItem_PrefersHeldCandidateInOrder(t *testing.T) {
	held := map[agent.Item]int{"stone": 4}
	got := groundFillItem(func(item agent.Item) int { return held[item] })
	if got != agent.Item("stone") {
		t.Errorf("groundFillItem = %q, want stone", got)
	}
}

func TestGroundFillItem_FallsBackToFirstPreferenceWhenNoneHeld(t *testing.T) {
	got := groundFillItem(func(item agent.Item) int { return 0 })
	if got != agent.Item("dirt") {
		t.Errorf("groundFillItem = %q, want dirt (first preference)", got)
	}
}
