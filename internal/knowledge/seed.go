package knowledge

// The default seed embeds a representative Minecraft-adjacent data set
// (logs->planks->sticks->tools, stone/iron/coal smelting, crafting-table/
// furnace stations, a charcoal fuel cycle) sufficient to make every
// end-to-end scenario runnable: no upstream source for this table exists
// (the teacher's recipes are a different game), so the exact contents are
// original, pinned to what the scenarios require.

// RecipeSeed is one seeded crafting recipe.
type RecipeSeed struct {
	ID              string
	OutputItem      string
	OutputQuantity  int
	RequiresStation string
	Components      []ComponentSeed
}

// ComponentSeed is one input of a RecipeSeed.
type ComponentSeed struct {
	Item     string
	Quantity int
}

// SmeltSeed is one seeded smelting conversion.
type SmeltSeed struct {
	OutputItem   string
	InputItem    string
	TicksPerItem int
	AltInputs    []string
}

// FuelSeed is one seeded fuel item and its burn-ticks.
type FuelSeed struct {
	Item  string
	Ticks int
}

// ToolRequirementSeed is the tool gate for a minable block.
type ToolRequirementSeed struct {
	Block    string
	MinTier  string
	ToolKind string
}

// DropSeed is what a mined block yields.
type DropSeed struct {
	Block    string
	Item     string
	MinCount int
	MaxCount int
}

// CropSeed is what a harvested crop yields.
type CropSeed struct {
	Crop     string
	DropItem string
	MinCount int
	MaxCount int
}

func defaultRecipes() []RecipeSeed {
	return []RecipeSeed{
		{
			ID: "oak_planks", OutputItem: "oak_planks", OutputQuantity: 4,
			Components: []ComponentSeed{{Item: "oak_log", Quantity: 1}},
		},
		{
			ID: "spruce_planks", OutputItem: "spruce_planks", OutputQuantity: 4,
			Components: []ComponentSeed{{Item: "spruce_log", Quantity: 1}},
		},
		{
			ID: "birch_planks", OutputItem: "birch_planks", OutputQuantity: 4,
			Components: []ComponentSeed{{Item: "birch_log", Quantity: 1}},
		},
		{
			ID: "stick", OutputItem: "stick", OutputQuantity: 4,
			Components: []ComponentSeed{{Item: "oak_planks", Quantity: 2}},
		},
		{
			ID: "crafting_table", OutputItem: "crafting_table", OutputQuantity: 1,
			Components: []ComponentSeed{{Item: "oak_planks", Quantity: 4}},
		},
		{
			ID: "furnace", OutputItem: "furnace", OutputQuantity: 1,
			RequiresStation: "crafting_table",
			Components:      []ComponentSeed{{Item: "cobblestone", Quantity: 8}},
		},
		{
			ID: "wooden_pickaxe", OutputItem: "wooden_pickaxe", OutputQuantity: 1,
			RequiresStation: "crafting_table",
			Components:      []ComponentSeed{{Item: "oak_planks", Quantity: 3}, {Item: "stick", Quantity: 2}},
		},
		{
			ID: "wooden_axe", OutputItem: "wooden_axe", OutputQuantity: 1,
			RequiresStation: "crafting_table",
			Components:      []ComponentSeed{{Item: "oak_planks", Quantity: 3}, {Item: "stick", Quantity: 2}},
		},
		{
			ID: "stone_pickaxe", OutputItem: "stone_pickaxe", OutputQuantity: 1,
			RequiresStation: "crafting_table",
			Components:      []ComponentSeed{{Item: "cobblestone", Quantity: 3}, {Item: "stick", Quantity: 2}},
		},
		{
			ID: "stone_axe", OutputItem: "stone_axe", OutputQuantity: 1,
			RequiresStation: "crafting_table",
			Components:      []ComponentSeed{{Item: "cobblestone", Quantity: 3}, {Item: "stick", Quantity: 2}},
		},
		{
			ID: "iron_pickaxe", OutputItem: "iron_pickaxe", OutputQuantity: 1,
			RequiresStation: "crafting_table",
			Components:      []ComponentSeed{{Item: "iron_ingot", Quantity: 3}, {Item: "stick", Quantity: 2}},
		},
	}
}

func defaultSmelting() []SmeltSeed {
	return []SmeltSeed{
		{OutputItem: "iron_ingot", InputItem: "raw_iron", TicksPerItem: 200},
		{OutputItem: "gold_ingot", InputItem: "raw_gold", TicksPerItem: 200},
		{OutputItem: "glass", InputItem: "sand", TicksPerItem: 200},
		{OutputItem: "charcoal", InputItem: "oak_log", TicksPerItem: 200,
			AltInputs: []string{"spruce_log", "birch_log"}},
	}
}

func defaultFuels() []FuelSeed {
	return []FuelSeed{
		{Item: "coal", Ticks: 1600},
		{Item: "charcoal", Ticks: 1600},
		{Item: "oak_log", Ticks: 300},
		{Item: "spruce_log", Ticks: 300},
		{Item: "birch_log", Ticks: 300},
		{Item: "oak_planks", Ticks: 150},
		{Item: "stick", Ticks: 100},
	}
}

// FuelPriority is the ordered fuel preference list of §4.4's tie-breaks:
// "Prefer coal > charcoal > log > plank > stick as fuel".
var FuelPriority = []string{"coal", "charcoal", "oak_log", "spruce_log", "birch_log", "oak_planks", "stick"}

func defaultToolRequirements() []ToolRequirementSeed {
	return []ToolRequirementSeed{
		{Block: "stone", MinTier: "wooden", ToolKind: "pickaxe"},
		{Block: "cobblestone", MinTier: "wooden", ToolKind: "pickaxe"},
		{Block: "iron_ore", MinTier: "stone", ToolKind: "pickaxe"},
		{Block: "deepslate_iron_ore", MinTier: "stone", ToolKind: "pickaxe"},
		{Block: "gold_ore", MinTier: "iron", ToolKind: "pickaxe"},
		{Block: "diamond_ore", MinTier: "iron", ToolKind: "pickaxe"},
		{Block: "obsidian", MinTier: "diamond", ToolKind: "pickaxe"},
		{Block: "oak_log", MinTier: "none", ToolKind: "any"},
		{Block: "spruce_log", MinTier: "none", ToolKind: "any"},
		{Block: "birch_log", MinTier: "none", ToolKind: "any"},
		{Block: "sand", MinTier: "none", ToolKind: "any"},
		{Block: "dirt", MinTier: "none", ToolKind: "any"},
		// bedrock has no adequate tier at any tier in the Knowledge Base,
		// per S6: Satisfiable() on this requirement is always false.
		{Block: "bedrock", MinTier: "unbreakable", ToolKind: "any"},
	}
}

func defaultDrops() []DropSeed {
	return []DropSeed{
		{Block: "stone", Item: "cobblestone", MinCount: 1, MaxCount: 1},
		{Block: "cobblestone", Item: "cobblestone", MinCount: 1, MaxCount: 1},
		{Block: "iron_ore", Item: "raw_iron", MinCount: 1, MaxCount: 1},
		{Block: "deepslate_iron_ore", Item: "raw_iron", MinCount: 1, MaxCount: 1},
		{Block: "gold_ore", Item: "raw_gold", MinCount: 1, MaxCount: 1},
		{Block: "diamond_ore", Item: "diamond", MinCount: 1, MaxCount: 1},
		{Block: "oak_log", Item: "oak_log", MinCount: 1, MaxCount: 1},
		{Block: "spruce_log", Item: "spruce_log", MinCount: 1, MaxCount: 1},
		{Block: "birch_log", Item: "birch_log", MinCount: 1, MaxCount: 1},
		{Block: "sand", Item: "sand", MinCount: 1, MaxCount: 1},
		{Block: "dirt", Item: "dirt", MinCount: 1, MaxCount: 1},
	}
}

func defaultCrops() []CropSeed {
	return []CropSeed{
		{Crop: "wheat", DropItem: "wheat", MinCount: 1, MaxCount: 1},
		{Crop: "carrots", DropItem: "carrot", MinCount: 1, MaxCount: 4},
		{Crop: "potatoes", DropItem: "potato", MinCount: 1, MaxCount: 4},
	}
}
