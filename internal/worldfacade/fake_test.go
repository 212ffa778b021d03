package worldfacade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

func TestFake_DigYieldsMappedDrop(t *testing.T) {
	pos := agent.WorldPos{X: 1, Y: 2, Z: 3}
	fake := worldfacade.NewFake().WithBlock(pos, "stone")
	fake.Drops["stone"] = "cobblestone"

	err := fake.Dig(context.Background(), pos)
	require.NoError(t, err)

	items, err := fake.InventoryItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, agent.Item("cobblestone"), items[0].Name)
	assert.Equal(t, 1, items[0].Count)

	_, err = fake.BlockAt(context.Background(), pos)
	require.NoError(t, err)
	name, err := fake.BlockAt(context.Background(), pos)
	require.NoError(t, err)
	assert.Equal(t, agent.Item("air"), name)
}

func TestFake_DigMissingBlockErrors(t *testing.T) {
	fake := worldfacade.NewFake()
	err := fake.Dig(context.Background(), agent.WorldPos{})
	assert.Error(t, err)
}

func TestFake_PlaceBlockRequiresEquippedItem(t *testing.T) {
	fake := worldfacade.NewFake()
	ref := agent.WorldPos{X: 0, Y: 0, Z: 0}

	err := fake.PlaceBlock(context.Background(), ref, worldfacade.FaceVector{DX: 0, DY: 1, DZ: 0})
	assert.Error(t, err)

	fake.WithItem("cobblestone", 1)
	require.NoError(t, fake.Equip(context.Background(), "cobblestone", "hand"))
	require.NoError(t, fake.PlaceBlock(context.Background(), ref, worldfacade.FaceVector{DX: 0, DY: 1, DZ: 0}))

	name, err := fake.BlockAt(context.Background(), ref.Add(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, agent.Item("cobblestone"), name)
}

func TestFake_CraftConsumesInputsAndProducesOutput(t *testing.T) {
	fake := worldfacade.NewFake().WithItem("oak_planks", 2)
	recipe := agent.Recipe{
		ID:          "stick",
		OutputItem:  "stick",
		OutputCount: 4,
		Inputs:      []agent.RecipeComponent{{Item: "oak_planks", Quantity: 2}},
	}

	err := fake.Craft(context.Background(), recipe)
	require.NoError(t, err)

	items, err := fake.InventoryItems(context.Background())
	require.NoError(t, err)
	held := map[agent.Item]int{}
	for _, s := range items {
		held[s.Name] = s.Count
	}
	assert.Equal(t, 0, held["oak_planks"])
	assert.Equal(t, 4, held["stick"])
}

func TestFake_CraftInsufficientInputsErrors(t *testing.T) {
	fake := worldfacade.NewFake()
	recipe := agent.Recipe{
		OutputItem:  "stick",
		OutputCount: 4,
		Inputs:      []agent.RecipeComponent{{Item: "oak_planks", Quantity: 2}},
	}
	err := fake.Craft(context.Background(), recipe)
	assert.Error(t, err)
}

func TestFake_FindBlockPicksNearestByManhattanDistance(t *testing.T) {
	fake := worldfacade.NewFake().
		WithBlock(agent.WorldPos{X: 5, Y: 0, Z: 0}, "oak_log").
		WithBlock(agent.WorldPos{X: 1, Y: 0, Z: 0}, "oak_log")

	block, err := fake.FindBlock(context.Background(), "oak_log", 100)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, agent.WorldPos{X: 1, Y: 0, Z: 0}, block.Pos)
}

func TestFake_FindBlockNoneInRange(t *testing.T) {
	fake := worldfacade.NewFake().WithBlock(agent.WorldPos{X: 100, Y: 0, Z: 0}, "oak_log")

	block, err := fake.FindBlock(context.Background(), "oak_log", 10)
	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestFake_FindEntityOutOfRangeReturnsNil(t *testing.T) {
	fake := worldfacade.NewFake().WithMob("z1", worldfacade.Entity{Name: "zombie", Pos: agent.WorldPos{X: 50, Y: 0, Z: 0}})

	entity, err := fake.FindEntity(context.Background(), "zombie", 5)
	require.NoError(t, err)
	assert.Nil(t, entity)
}

func TestFake_OpenContainerSmeltCycle(t *testing.T) {
	pos := agent.WorldPos{X: 0, Y: 0, Z: 0}
	fake := worldfacade.NewFake().WithBlock(pos, "furnace").WithItem("raw_iron", 2).WithItem("coal", 1)

	container, err := fake.OpenContainer(context.Background(), pos)
	require.NoError(t, err)

	require.NoError(t, container.PutInput(context.Background(), "raw_iron", 2))
	require.NoError(t, container.PutFuel(context.Background(), "coal", 1))

	fc, ok := container.(interface{ Smelt(agent.Item, int) })
	require.True(t, ok)
	fc.Smelt("iron_ingot", 1)

	item, count, err := container.TakeOutput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, agent.Item("iron_ingot"), item)
	assert.Equal(t, 2, count)
}
