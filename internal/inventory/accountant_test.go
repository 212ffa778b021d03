package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

func TestSnapshot_AggregatesHeldItems(t *testing.T) {
	fake := worldfacade.NewFake().WithItem("oak_log", 3).WithItem("cobblestone", 12)
	acct := inventory.New(fake)

	snap, err := acct.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap["oak_log"])
	assert.Equal(t, 12, snap["cobblestone"])
	assert.Equal(t, 0, snap["diamond"])
}

func TestHeld_ReadsThroughToFacade(t *testing.T) {
	fake := worldfacade.NewFake().WithItem("stick", 7)
	acct := inventory.New(fake)

	count, err := acct.Held(context.Background(), "stick")
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	count, err = acct.Held(context.Background(), "diamond")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBestToolOfKind_PicksHighestTierMatchingKind(t *testing.T) {
	fake := worldfacade.NewFake().
		WithItem("wooden_pickaxe", 1).
		WithItem("stone_pickaxe", 1).
		WithItem("iron_axe", 1)
	acct := inventory.New(fake)

	item, tier, found, err := acct.BestToolOfKind(context.Background(), agent.ToolPickaxe)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, agent.Item("stone_pickaxe"), item)
	assert.Equal(t, agent.TierStone, tier)
}

func TestBestToolOfKind_NoneHeld(t *testing.T) {
	acct := inventory.New(worldfacade.NewFake())

	_, _, found, err := acct.BestToolOfKind(context.Background(), agent.ToolAxe)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListItems_FiltersAndSorts(t *testing.T) {
	fake := worldfacade.NewFake().
		WithItem("oak_log", 2).
		WithItem("birch_log", 1).
		WithItem("cobblestone", 5)
	acct := inventory.New(fake)

	items, err := acct.ListItems(context.Background(), func(item agent.Item, count int) bool {
		return count >= 2
	})
	require.NoError(t, err)
	assert.Equal(t, []agent.Item{"cobblestone", "oak_log"}, items)
}
