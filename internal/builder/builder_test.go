package builder

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// stubRunner is a Runner test double recording every Plan handed to it
// instead of actually executing it.
type stubRunner struct {
	ran []agent.Plan
}

func (s *stubRunner) RunPlan(ctx context.Context, plan agent.Plan) error {
	s.ran = append(s.ran, plan)
	return nil
}

func newBuilder(t *testing.T, fake *worldfacade.Fake) *Builder {
	t.Helper()
	base, err := knowledge.Load(context.Background(), ":memory:")
	require.NoError(t, err)
	acct := inventory.New(fake)
	rslv := resolver.New(base)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(fake, acct, rslv, logger)
}

func TestBuild_PlacesEveryVoxelBottomUp(t *testing.T) {
	bp := agent.Blueprint{
		Name: "pillar", DimX: 1, DimY: 2, DimZ: 1,
		Voxel: []agent.BlueprintVoxel{
			{DX: 0, DY: 0, DZ: 0, Block: "cobblestone"},
			{DX: 0, DY: 1, DZ: 0, Block: "cobblestone"},
		},
	}
	origin := agent.WorldPos{X: 5, Y: 10, Z: 5}
	fake := worldfacade.NewFake().
		WithItem("cobblestone", 2).
		WithBlock(origin.Add(0, -1, 0), "stone")
	b := newBuilder(t, fake)
	runner := &stubRunner{}

	err := b.Build(context.Background(), bp, origin, Options{}, runner)
	require.NoError(t, err)
	assert.Empty(t, runner.ran, "materials were already held, resolver should never be invoked")

	base, err := fake.BlockAt(context.Background(), origin)
	require.NoError(t, err)
	assert.Equal(t, agent.Item("cobblestone"), base)

	top, err := fake.BlockAt(context.Background(), origin.Add(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, agent.Item("cobblestone"), top)
}

func TestEnsureResources_SkipsWhenInventorySufficient(t *testing.T) {
	bp := agent.Blueprint{Voxel: []agent.BlueprintVoxel{{Block: "stone"}, {Block: "stone"}}}
	fake := worldfacade.NewFake().WithItem("stone", 5)
	b := newBuilder(t, fake)
	runner := &stubRunner{}

	err := b.ensureResources(context.Background(), bp, runner)
	require.NoError(t, err)
	assert.Empty(t, runner.ran)
}

func TestEnsureResources_DelegatesDeficitToResolver(t *testing.T) {
	bp := agent.Blueprint{Voxel: []agent.BlueprintVoxel{
		{Block: "oak_planks"}, {Block: "oak_planks"}, {Block: "oak_planks"}, {Block: "oak_planks"},
	}}
	fake := worldfacade.NewFake().WithBlock(agent.WorldPos{X: 1, Y: 0, Z: 0}, "oak_log")
	b := newBuilder(t, fake)
	runner := &stubRunner{}

	err := b.ensureResources(context.Background(), bp, runner)
	require.NoError(t, err)
	require.Len(t, runner.ran, 1)

	plan := runner.ran[0]
	require.False(t, plan.Empty())
	last, ok := plan.Tasks[len(plan.Tasks)-1].(agent.CraftTask)
	require.True(t, ok, "last task should be CraftTask, got %T", plan.Tasks[len(plan.Tasks)-1])
	assert.Equal(t, agent.Item("oak_planks"), last.Recipe.OutputItem)
}

func TestPrepareGround_FillsUnsupportedColumn(t *testing.T) {
	bp := agent.Blueprint{Voxel: []agent.BlueprintVoxel{{DX: 0, DY: 0, DZ: 0, Block: "cobblestone"}}}
	origin := agent.WorldPos{X: 0, Y: 0, Z: 0}
	fake := worldfacade.NewFake().
		WithItem("dirt", 1).
		WithBlock(origin.Add(1, -1, 0), "stone") // solid neighbour for the fill placement to reference
	b := newBuilder(t, fake)

	err := b.prepareGround(context.Background(), bp, origin)
	require.NoError(t, err)

	below, err := fake.BlockAt(context.Background(), origin.Add(0, -1, 0))
	require.NoError(t, err)
	assert.Equal(t, agent.Item("dirt"), below)
}

func TestPrepareGround_SkipsAlreadySolidColumn(t *testing.T) {
	bp := agent.Blueprint{Voxel: []agent.BlueprintVoxel{{DX: 0, DY: 0, DZ: 0, Block: "cobblestone"}}}
	origin := agent.WorldPos{X: 0, Y: 0, Z: 0}
	fake := worldfacade.NewFake().
		WithBlock(origin.Add(0, -1, 0), "stone").
		WithItem("dirt", 1)
	b := newBuilder(t, fake)

	err := b.prepareGround(context.Background(), bp, origin)
	require.NoError(t, err)

	held, err := inventory.New(fake).Held(context.Background(), "dirt")
	require.NoError(t, err)
	assert.Equal(t, 1, held, "existing solid ground should never consume the fill item")
}

func TestClearArea_DigsMismatchedBlock(t *testing.T) {
	bp := agent.Blueprint{Voxel: []agent.BlueprintVoxel{{DX: 0, DY: 0, DZ: 0, Block: "cobblestone"}}}
	origin := agent.WorldPos{X: 0, Y: 0, Z: 0}
	fake := worldfacade.NewFake().WithBlock(origin, "dirt")
	b := newBuilder(t, fake)

	err := b.clearArea(context.Background(), bp, origin)
	require.NoError(t, err)

	got, err := fake.BlockAt(context.Background(), origin)
	require.NoError(t, err)
	assert.Equal(t, agent.Item("air"), got)
}

func TestClearArea_SkipsAirAndMatchingBlocks(t *testing.T) {
	bp := agent.Blueprint{Voxel: []agent.BlueprintVoxel{
		{DX: 0, DY: 0, DZ: 0, Block: "cobblestone"},
		{DX: 1, DY: 0, DZ: 0, Block: "stone"},
	}}
	origin := agent.WorldPos{X: 0, Y: 0, Z: 0}
	fake := worldfacade.NewFake().WithBlock(origin, "cobblestone")
	b := newBuilder(t, fake)

	err := b.clearArea(context.Background(), bp, origin)
	require.NoError(t, err)

	got, err := fake.BlockAt(context.Background(), origin)
	require.NoError(t, err)
	assert.Equal(t, agent.Item("cobblestone"), got, "block already matching the target is never dug")

	gotAir, err := fake.BlockAt(context.Background(), origin.Add(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, agent.Item("air"), gotAir)
}
