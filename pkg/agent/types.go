// Package agent contains the core data model shared by the Goal Resolver,
// Task Executor, and Structure Builder: items, recipes, plans, and
// blueprints. Nothing in this package performs I/O.
package agent

import (
	"fmt"
	"strings"
)

// Item is an interned symbolic block/item name, e.g. "oak_log",
// "iron_ingot". Two items are equal iff their names are equal.
type Item string

// Tier is a mining-capability rank for tools. The zero value is TierNone.
type Tier int

const (
	TierNone Tier = iota
	TierWooden
	TierStone
	TierIron
	TierDiamond
	TierNetherite
	// TierUnbreakable sits above every real tool tier: no held tool ever
	// matches it, so a requirement pinned to it can never be satisfied
	// (bedrock and similar blocks).
	TierUnbreakable
)

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierWooden:
		return "wooden"
	case TierStone:
		return "stone"
	case TierIron:
		return "iron"
	case TierDiamond:
		return "diamond"
	case TierNetherite:
		return "netherite"
	case TierUnbreakable:
		return "unbreakable"
	default:
		return "unknown"
	}
}

// tierByName supports substring/prefix matching of held item names against
// the ordered tier ladder (e.g. "stone_pickaxe" contains "stone").
var tierByName = map[string]Tier{
	"wooden":    TierWooden,
	"stone":     TierStone,
	"iron":      TierIron,
	"diamond":   TierDiamond,
	"netherite": TierNetherite,
	"golden":    TierWooden, // gold tools mine like wood tier, per Minecraft rules
}

// ToolTier inspects a held item's name and returns the highest tier it
// matches by substring (e.g. "stone_pickaxe" -> TierStone), or TierNone
// if no tier substring is present.
func ToolTier(name Item) Tier {
	best := TierNone
	for substr, tier := range tierByName {
		if strings.Contains(string(name), substr) && tier > best {
			best = tier
		}
	}
	return best
}

// ToolKindOf inspects a held item's name and returns the tool kind it
// matches by substring, or "" if none matches.
func ToolKindOf(name Item) ToolKind {
	for _, k := range []ToolKind{ToolPickaxe, ToolAxe, ToolShovel, ToolHoe, ToolSword} {
		if strings.Contains(string(name), string(k)) {
			return k
		}
	}
	return ""
}

// ToolKind is the functional category of a tool.
type ToolKind string

const (
	ToolAny     ToolKind = "any"
	ToolPickaxe ToolKind = "pickaxe"
	ToolAxe     ToolKind = "axe"
	ToolShovel  ToolKind = "shovel"
	ToolHoe     ToolKind = "hoe"
	ToolSword   ToolKind = "sword"
)

// ToolRequirement is the minimum tool needed to mine a given block.
type ToolRequirement struct {
	MinTier  Tier
	ToolKind ToolKind
}

// Satisfiable reports whether the requirement can ever be met by any real
// tool tier in the Knowledge Base (bedrock-style blocks pin MinTier to
// TierUnbreakable, which no held tool can ever reach).
func (r ToolRequirement) Satisfiable() bool {
	return r.MinTier <= TierNetherite
}

// Count is a non-negative item quantity. Negative counts never occur;
// producing one is a programming error, not a runtime condition.
type Count = uint32

// RecipeComponent is one input of a Recipe: a quantity of an ingredient
// item.
type RecipeComponent struct {
	Item     Item
	Quantity int
}

// StationKind names a world block that gates certain recipes.
type StationKind string

const (
	StationNone          StationKind = ""
	StationCraftingTable StationKind = "crafting_table"
	StationFurnace       StationKind = "furnace"
)

// Recipe describes how to produce OutputItem from a multiset of inputs.
// The shaped/shapeless distinction is erased: only the aggregate input
// multiset and output matter to the Resolver.
type Recipe struct {
	ID              string
	OutputItem      Item
	OutputCount     int
	Inputs          []RecipeComponent
	RequiresStation StationKind
}

// Runs returns the number of craft invocations needed to produce at least
// needed units of the recipe's output.
func (r Recipe) Runs(needed int) int {
	if r.OutputCount <= 0 {
		return 0
	}
	return (needed + r.OutputCount - 1) / r.OutputCount
}

// SmeltingRecipe describes a furnace conversion. Fuel is decoupled: see
// the Fuel table for burn-ticks per fuel item.
type SmeltingRecipe struct {
	OutputItem      Item
	InputItem       Item
	AlternateInputs []Item
	TicksPerItem    int // default 200
}

func (r SmeltingRecipe) ticksPerItem() int {
	if r.TicksPerItem <= 0 {
		return 200
	}
	return r.TicksPerItem
}

// FuelNeeded computes ceil(n * ticksPerItem / fuelTicks) per §4.6.
func (r SmeltingRecipe) FuelNeeded(n int, fuelTicks int) int {
	if fuelTicks <= 0 {
		return 0
	}
	total := n * r.ticksPerItem()
	return (total + fuelTicks - 1) / fuelTicks
}

// DropRange is the inclusive [Min, Max] count of an item dropped when a
// block is mined.
type DropRange struct {
	Item Item
	Min  int
	Max  int
}

// FuelPlan records how a Smelt task's fuel demand was satisfied, including
// the one-level charcoal-style substitution described in §4.6.
type FuelPlan struct {
	FuelItem          Item
	FuelCount         int
	SubstitutedFrom   Item // non-zero if FuelItem replaced a cyclic choice
	SubSmeltRecipe    *SmeltingRecipe
	SubSmeltFuelItem  Item
	SubSmeltFuelCount int
}

// Blueprint is an origin-relative voxel structure: a bounding box plus a
// sparse map of offsets to block placements. Air voxels are elided.
type Blueprint struct {
	Name  string
	DimX  int
	DimY  int
	DimZ  int
	Voxel []BlueprintVoxel
}

// BlueprintVoxel is one non-air cell of a Blueprint, offset from the
// blueprint's origin.
type BlueprintVoxel struct {
	DX, DY, DZ int
	Block      Item
	Properties map[string]string
}

// WorldPos is an absolute world coordinate.
type WorldPos struct {
	X, Y, Z int
}

func (p WorldPos) Add(dx, dy, dz int) WorldPos {
	return WorldPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

func (p WorldPos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// PlacementTask is one step of a Structure Builder placement plan.
type PlacementTask struct {
	Pos        WorldPos
	Block      Item
	Properties map[string]string
}

// PlayerID identifies a player in the external world.
type PlayerID string
