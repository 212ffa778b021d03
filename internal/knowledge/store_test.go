package knowledge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/pkg/agent"
)

func loadTestBase(t *testing.T) *knowledge.Base {
	t.Helper()
	base, err := knowledge.Load(context.Background(), ":memory:")
	require.NoError(t, err)
	return base
}

func TestLoad_SeedsDefaultsOnEmptyDatabase(t *testing.T) {
	base := loadTestBase(t)

	recipe, ok := base.RecipeFor("stick", func(agent.Item) int { return 0 })
	require.True(t, ok)
	assert.Equal(t, 4, recipe.OutputCount)
	assert.Equal(t, []agent.RecipeComponent{{Item: "oak_planks", Quantity: 2}}, recipe.Inputs)
}

func TestRecipeFor_EachPlanksVariantIsItsOwnRecipe(t *testing.T) {
	base := loadTestBase(t)

	// Each log variant seeds its own distinct output item
	// (oak_planks/spruce_planks/birch_planks), so RecipeFor never needs
	// to tie-break between them; the held callback is irrelevant here.
	for _, variant := range []agent.Item{"oak_planks", "spruce_planks", "birch_planks"} {
		recipe, ok := base.RecipeFor(variant, func(agent.Item) int { return 0 })
		require.True(t, ok, "variant %s", variant)
		assert.Equal(t, variant, recipe.OutputItem)
		assert.Equal(t, 4, recipe.OutputCount)
	}

	_, ok := base.RecipeFor("nonexistent_item", nil)
	assert.False(t, ok)
}

func TestDropFor_AndCropFor(t *testing.T) {
	base := loadTestBase(t)

	drop, ok := base.DropFor("iron_ore")
	require.True(t, ok)
	assert.Equal(t, agent.Item("raw_iron"), drop.Item)

	_, ok = base.DropFor("nonexistent_block")
	assert.False(t, ok)

	crop, ok := base.CropFor("wheat")
	require.True(t, ok)
	assert.Equal(t, agent.Item("wheat"), crop.Item)
}

func TestToolRequirementFor_BedrockUnsatisfiable(t *testing.T) {
	base := loadTestBase(t)

	req := base.ToolRequirementFor("bedrock")
	assert.False(t, req.Satisfiable())

	req = base.ToolRequirementFor("stone")
	assert.True(t, req.Satisfiable())
	assert.Equal(t, agent.TierWooden, req.MinTier)
}

func TestFuelTicks(t *testing.T) {
	base := loadTestBase(t)

	assert.Equal(t, 1600, base.FuelTicks("coal"))
	assert.Equal(t, 0, base.FuelTicks("diamond"))
}
