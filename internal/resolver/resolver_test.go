package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/pkg/agent"
)

func newTestResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	base, err := knowledge.Load(context.Background(), ":memory:")
	require.NoError(t, err)
	return resolver.New(base)
}

func describeKinds(t *testing.T, plan agent.Plan) []string {
	t.Helper()
	var kinds []string
	for _, task := range plan.Tasks {
		switch task.(type) {
		case agent.GatherTask:
			kinds = append(kinds, "gather")
		case agent.HarvestTask:
			kinds = append(kinds, "harvest")
		case agent.CraftTask:
			kinds = append(kinds, "craft")
		case agent.SmeltTask:
			kinds = append(kinds, "smelt")
		case agent.EnsureToolTask:
			kinds = append(kinds, "ensure_tool")
		case agent.EnsureStationTask:
			kinds = append(kinds, "ensure_station")
		default:
			kinds = append(kinds, "unknown")
		}
	}
	return kinds
}

func TestResolve_AlreadyHeldGoalProducesEmptyPlan(t *testing.T) {
	r := newTestResolver(t)

	plan, err := r.Resolve(context.Background(), agent.Goal{Item: "stick", Count: 4}, map[agent.Item]int{"stick": 10})
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestResolve_MultiStepCraftChain(t *testing.T) {
	r := newTestResolver(t)

	// wooden_pickaxe needs oak_planks (from oak_log) + stick (from more
	// oak_planks), plus a crafting_table station.
	plan, err := r.Resolve(context.Background(), agent.Goal{Item: "wooden_pickaxe", Count: 1}, map[agent.Item]int{})
	require.NoError(t, err)
	require.False(t, plan.Empty())

	kinds := describeKinds(t, plan)
	assert.Contains(t, kinds, "gather")
	assert.Contains(t, kinds, "ensure_station")
	assert.Contains(t, kinds, "craft")

	// The final task must be crafting the pickaxe itself.
	last := plan.Tasks[len(plan.Tasks)-1]
	craft, ok := last.(agent.CraftTask)
	require.True(t, ok, "last task should be CraftTask, got %T", last)
	assert.Equal(t, agent.Item("wooden_pickaxe"), craft.Recipe.OutputItem)

	// Every dependency task appears before its dependent (oak_log gather
	// before oak_planks craft before stick/pickaxe craft).
	gatherIdx, craftPlanksIdx, craftStickIdx := -1, -1, -1
	for i, task := range plan.Tasks {
		switch tt := task.(type) {
		case agent.GatherTask:
			if tt.Block == "oak_log" {
				gatherIdx = i
			}
		case agent.CraftTask:
			switch tt.Recipe.OutputItem {
			case "oak_planks":
				craftPlanksIdx = i
			case "stick":
				craftStickIdx = i
			}
		}
	}
	require.NotEqual(t, -1, gatherIdx)
	require.NotEqual(t, -1, craftPlanksIdx)
	require.NotEqual(t, -1, craftStickIdx)
	assert.Less(t, gatherIdx, craftPlanksIdx)
	assert.Less(t, craftPlanksIdx, craftStickIdx)
}

func TestResolve_ToolGatedGatherInsertsEnsureToolOnce(t *testing.T) {
	r := newTestResolver(t)

	plan, err := r.Resolve(context.Background(), agent.Goal{Item: "cobblestone", Count: 10}, map[agent.Item]int{})
	require.NoError(t, err)

	ensureToolCount := 0
	for _, task := range plan.Tasks {
		if _, ok := task.(agent.EnsureToolTask); ok {
			ensureToolCount++
		}
	}
	assert.Equal(t, 1, ensureToolCount, "a single shared tool dependency should only be ensured once")
}

func TestResolve_SmeltChainIncludesFuelAndStation(t *testing.T) {
	r := newTestResolver(t)

	plan, err := r.Resolve(context.Background(), agent.Goal{Item: "iron_ingot", Count: 2}, map[agent.Item]int{"raw_iron": 2, "coal": 1})
	require.NoError(t, err)

	var smeltTask *agent.SmeltTask
	for i := range plan.Tasks {
		if st, ok := plan.Tasks[i].(agent.SmeltTask); ok {
			smeltTask = &st
		}
	}
	require.NotNil(t, smeltTask)
	assert.Equal(t, 2, smeltTask.Count)
	assert.Equal(t, agent.Item("coal"), smeltTask.Fuel.FuelItem)

	kinds := describeKinds(t, plan)
	assert.Contains(t, kinds, "ensure_station")
}

func TestResolve_UnsatisfiableGoalReturnsError(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve(context.Background(), agent.Goal{Item: "bedrock", Count: 1}, map[agent.Item]int{})
	require.Error(t, err)
	var unsat *agent.UnsatisfiableError
	assert.ErrorAs(t, err, &unsat)
}

func TestResolve_ZeroOrNegativeCountTreatedAsOne(t *testing.T) {
	r := newTestResolver(t)

	plan, err := r.Resolve(context.Background(), agent.Goal{Item: "oak_planks", Count: 0}, map[agent.Item]int{})
	require.NoError(t, err)
	require.False(t, plan.Empty())

	var gather *agent.GatherTask
	for i := range plan.Tasks {
		if g, ok := plan.Tasks[i].(agent.GatherTask); ok {
			gather = &g
		}
	}
	require.NotNil(t, gather)
	assert.Equal(t, 1, gather.Count)
}

func TestResolve_CharcoalCycleFallsBackToOakLogFuel(t *testing.T) {
	r := newTestResolver(t)

	// §8 S4: smelting charcoal from oak_log is a fuel cycle — charcoal
	// can't fuel its own smelt, and coal has no ore anywhere in this
	// Knowledge Base, so the Resolver must fall back to oak_log both as
	// the smelt input and as the substituted fuel.
	plan, err := r.Resolve(context.Background(), agent.Goal{Item: "charcoal", Count: 2}, map[agent.Item]int{})
	require.NoError(t, err)
	require.False(t, plan.Empty())

	var smelt *agent.SmeltTask
	var gather *agent.GatherTask
	for i := range plan.Tasks {
		switch tt := plan.Tasks[i].(type) {
		case agent.SmeltTask:
			smelt = &tt
		case agent.GatherTask:
			if tt.Block == "oak_log" {
				gather = &tt
			}
		}
	}

	require.NotNil(t, smelt, "plan should contain a SmeltTask for charcoal")
	assert.Equal(t, 2, smelt.Count)
	assert.Equal(t, agent.Item("oak_log"), smelt.Fuel.FuelItem)
	assert.Equal(t, agent.Item("charcoal"), smelt.Fuel.SubstitutedFrom)
	assert.Equal(t, 2, smelt.Fuel.FuelCount)

	require.NotNil(t, gather, "plan should gather the oak_log consumed as both smelt input and fuel")
	assert.Equal(t, 4, gather.Count)
}

func TestResolve_PartialInventoryReducesNetDemand(t *testing.T) {
	r := newTestResolver(t)

	plan, err := r.Resolve(context.Background(), agent.Goal{Item: "stick", Count: 8}, map[agent.Item]int{"oak_planks": 4})
	require.NoError(t, err)

	var craft *agent.CraftTask
	for i := range plan.Tasks {
		if c, ok := plan.Tasks[i].(agent.CraftTask); ok && c.Recipe.OutputItem == "stick" {
			craft = &c
		}
	}
	require.NotNil(t, craft)
	// 8 sticks need 2 runs (4 per run); with 4 planks already held (2
	// runs' worth), no further oak_planks crafting/gathering is needed.
	assert.Equal(t, 2, craft.Repetitions)

	for _, task := range plan.Tasks {
		if c, ok := task.(agent.CraftTask); ok {
			assert.NotEqual(t, agent.Item("oak_planks"), c.Recipe.OutputItem, "held planks should fully cover demand")
		}
	}
}
