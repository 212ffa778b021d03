package station_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/internal/station"
	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// stubRunner is a station.PlanRunner test double that records every Plan it
// was handed and, optionally, applies a caller-supplied side effect instead
// of actually executing it.
type stubRunner struct {
	ran   []agent.Plan
	apply func(agent.Plan)
}

func (s *stubRunner) RunPlan(ctx context.Context, plan agent.Plan) error {
	s.ran = append(s.ran, plan)
	if s.apply != nil {
		s.apply(plan)
	}
	return nil
}

func newManager(t *testing.T, fake *worldfacade.Fake) *station.Manager {
	t.Helper()
	base, err := knowledge.Load(context.Background(), ":memory:")
	require.NoError(t, err)
	rslv := resolver.New(base)
	acct := inventory.New(fake)
	return station.New(fake, rslv, acct)
}

func TestEnsure_FindsExistingStationNearby(t *testing.T) {
	fake := worldfacade.NewFake().WithBlock(agent.WorldPos{X: 2, Y: 0, Z: 0}, "crafting_table")
	mgr := newManager(t, fake)

	err := mgr.Ensure(context.Background(), agent.StationCraftingTable, &stubRunner{})
	require.NoError(t, err)

	pos, err := fake.EntityPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, agent.WorldPos{X: 2, Y: 0, Z: 0}, pos)
}

func TestEnsure_PlacesHeldStationItem(t *testing.T) {
	fake := worldfacade.NewFake().
		WithItem("crafting_table", 1).
		WithBlock(agent.WorldPos{X: 0, Y: -2, Z: 0}, "stone")
	mgr := newManager(t, fake)

	err := mgr.Ensure(context.Background(), agent.StationCraftingTable, &stubRunner{})
	require.NoError(t, err)

	placed, err := fake.BlockAt(context.Background(), agent.WorldPos{X: 0, Y: -1, Z: 0})
	require.NoError(t, err)
	assert.Equal(t, agent.Item("crafting_table"), placed)
}

func TestEnsure_ProducesThenPlacesWhenNoneHeldOrNearby(t *testing.T) {
	fake := worldfacade.NewFake().WithBlock(agent.WorldPos{X: 0, Y: -2, Z: 0}, "stone")
	mgr := newManager(t, fake)

	runner := &stubRunner{apply: func(agent.Plan) {
		fake.WithItem("crafting_table", 1)
	}}

	err := mgr.Ensure(context.Background(), agent.StationCraftingTable, runner)
	require.NoError(t, err)
	require.Len(t, runner.ran, 1)
	assert.Equal(t, agent.Item("crafting_table"), runner.ran[0].Tasks[len(runner.ran[0].Tasks)-1].(agent.CraftTask).Recipe.OutputItem)

	placed, err := fake.BlockAt(context.Background(), agent.WorldPos{X: 0, Y: -1, Z: 0})
	require.NoError(t, err)
	assert.Equal(t, agent.Item("crafting_table"), placed)
}

func TestEnsure_PlacementFailsWithNoSolidGroundAnywhere(t *testing.T) {
	fake := worldfacade.NewFake().WithItem("crafting_table", 1)
	mgr := newManager(t, fake)

	err := mgr.Ensure(context.Background(), agent.StationCraftingTable, &stubRunner{})
	require.Error(t, err)
	var placementErr *agent.PlacementFailedError
	assert.ErrorAs(t, err, &placementErr)
}
