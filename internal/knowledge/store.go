package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// Base is the immutable, in-memory Knowledge Base described by §4.1. It
// holds no database handle and performs no I/O; every lookup is a plain
// map read. Construct one with Load.
type Base struct {
	recipes          map[agent.Item][]agent.Recipe // multiple recipes may share an output (e.g. planks variants)
	smelting         map[agent.Item]agent.SmeltingRecipe
	fuels            map[agent.Item]int
	toolRequirements map[agent.Item]agent.ToolRequirement
	drops            map[agent.Item]agent.DropRange
	crops            map[agent.Item]agent.DropRange
	allRecipes       []agent.Recipe
	blockForItem     map[agent.Item]agent.Item // drop item -> block to mine, lexicographically smallest block wins ties
	cropForItem      map[agent.Item]agent.Item // drop item -> crop to harvest
}

// RecipeFor returns the canonical recipe for item. If multiple recipes
// produce the same output (e.g. planks from any log variant), it resolves
// the ingredient placeholder by asking held which variant is available in
// the largest quantity, falling back to the lexicographically smallest
// canonical recipe when none is held (§4.1, §4.4 tie-breaks).
func (b *Base) RecipeFor(item agent.Item, held func(agent.Item) int) (agent.Recipe, bool) {
	candidates := b.recipes[item]
	if len(candidates) == 0 {
		return agent.Recipe{}, false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}

	best := candidates[0]
	bestHeld := -1
	for _, r := range candidates {
		h := 0
		if held != nil && len(r.Inputs) > 0 {
			h = held(r.Inputs[0].Item)
		}
		if h > bestHeld || (h == bestHeld && r.ID < best.ID) {
			best, bestHeld = r, h
		}
	}
	return best, true
}

// SmeltFor returns the smelting recipe producing item, if any.
func (b *Base) SmeltFor(item agent.Item) (agent.SmeltingRecipe, bool) {
	r, ok := b.smelting[item]
	return r, ok
}

// ToolRequirementFor returns the tool gate for a minable block. Blocks
// absent from the table require no tool (TierNone/ToolAny).
func (b *Base) ToolRequirementFor(block agent.Item) agent.ToolRequirement {
	if r, ok := b.toolRequirements[block]; ok {
		return r
	}
	return agent.ToolRequirement{MinTier: agent.TierNone, ToolKind: agent.ToolAny}
}

// FuelTicks returns the burn-ticks for item, or 0 if it is not fuel.
func (b *Base) FuelTicks(item agent.Item) int {
	return b.fuels[item]
}

// ToolGatedBlocks returns every block with a registered tool requirement,
// sorted by name, for diagnostic tools walking the tier-unlock ladder.
func (b *Base) ToolGatedBlocks() []agent.Item {
	out := make([]agent.Item, 0, len(b.toolRequirements))
	for block := range b.toolRequirements {
		out = append(out, block)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DropFor returns the item+count range yielded by mining block.
func (b *Base) DropFor(block agent.Item) (agent.DropRange, bool) {
	d, ok := b.drops[block]
	return d, ok
}

// CropFor returns the item+count range yielded by harvesting crop.
func (b *Base) CropFor(crop agent.Item) (agent.DropRange, bool) {
	d, ok := b.crops[crop]
	return d, ok
}

// IsHarvestable reports whether item names a harvestable crop.
func (b *Base) IsHarvestable(item agent.Item) bool {
	_, ok := b.crops[item]
	return ok
}

// IsGatherable reports whether mining a block of this name is possible at
// all (it appears in the drop table, even if it drops itself).
func (b *Base) IsGatherable(item agent.Item) bool {
	_, ok := b.drops[item]
	return ok
}

// BlockForItem returns the block to mine that yields item, reverse-indexed
// from the drop table (§4.1/§4.4: the Resolver needs "what produces this"
// given only the item it's short on).
func (b *Base) BlockForItem(item agent.Item) (agent.Item, bool) {
	block, ok := b.blockForItem[item]
	return block, ok
}

// CropForItem returns the crop to harvest that yields item, reverse-indexed
// from the harvestable-crops table.
func (b *Base) CropForItem(item agent.Item) (agent.Item, bool) {
	crop, ok := b.cropForItem[item]
	return crop, ok
}

// AllRecipes returns every recipe in the base, for the Resolver's
// diagnostics (Query / RecipeLookup / ComponentUses) that need to scan
// the whole table rather than look up a single output.
func (b *Base) AllRecipes() []agent.Recipe {
	return b.allRecipes
}

// AllSmeltingRecipes returns every smelting recipe, sorted by output item,
// for the same diagnostic tools that need to scan furnace conversions
// alongside crafting recipes.
func (b *Base) AllSmeltingRecipes() []agent.SmeltingRecipe {
	out := make([]agent.SmeltingRecipe, 0, len(b.smelting))
	for _, s := range b.smelting {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OutputItem < out[j].OutputItem })
	return out
}

// Load opens a SQLite database at dsn (":memory:" for an ephemeral one),
// initializes the schema, seeds it with the default data set if empty,
// and returns the resulting immutable Base. All I/O happens here; the
// returned Base never touches the database again.
func Load(ctx context.Context, dsn string) (*Base, error) {
	sqlDSN := fmt.Sprintf("%s?_foreign_keys=on", dsn)
	db, err := sql.Open("sqlite", sqlDSN)
	if err != nil {
		return nil, fmt.Errorf("opening knowledge db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging knowledge db: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting recipes: %w", err)
	}
	if count == 0 {
		if err := seedDefaults(ctx, db); err != nil {
			return nil, fmt.Errorf("seeding knowledge db: %w", err)
		}
	}

	return loadFromDB(ctx, db)
}

func seedDefaults(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range defaultRecipes() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (id, output_item, output_quantity, requires_station) VALUES (?, ?, ?, ?)`,
			r.ID, r.OutputItem, r.OutputQuantity, r.RequiresStation,
		); err != nil {
			return fmt.Errorf("inserting recipe %s: %w", r.ID, err)
		}
		for _, c := range r.Components {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_components (recipe_id, item, quantity) VALUES (?, ?, ?)`,
				r.ID, c.Item, c.Quantity,
			); err != nil {
				return fmt.Errorf("inserting component of %s: %w", r.ID, err)
			}
		}
	}

	for _, s := range defaultSmelting() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO smelting_recipes (output_item, input_item, ticks_per_item) VALUES (?, ?, ?)`,
			s.OutputItem, s.InputItem, s.TicksPerItem,
		); err != nil {
			return fmt.Errorf("inserting smelting recipe %s: %w", s.OutputItem, err)
		}
		for _, alt := range s.AltInputs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO smelting_alt_inputs (output_item, input_item) VALUES (?, ?)`,
				s.OutputItem, alt,
			); err != nil {
				return fmt.Errorf("inserting alt input for %s: %w", s.OutputItem, err)
			}
		}
	}

	for _, f := range defaultFuels() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO fuels (item, ticks) VALUES (?, ?)`, f.Item, f.Ticks); err != nil {
			return fmt.Errorf("inserting fuel %s: %w", f.Item, err)
		}
	}

	for _, t := range defaultToolRequirements() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tool_requirements (block, min_tier, tool_kind) VALUES (?, ?, ?)`,
			t.Block, t.MinTier, t.ToolKind,
		); err != nil {
			return fmt.Errorf("inserting tool requirement %s: %w", t.Block, err)
		}
	}

	for _, d := range defaultDrops() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO block_drops (block, item, min_count, max_count) VALUES (?, ?, ?, ?)`,
			d.Block, d.Item, d.MinCount, d.MaxCount,
		); err != nil {
			return fmt.Errorf("inserting drop %s: %w", d.Block, err)
		}
	}

	for _, c := range defaultCrops() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO harvestable_crops (crop, drop_item, min_count, max_count) VALUES (?, ?, ?, ?)`,
			c.Crop, c.DropItem, c.MinCount, c.MaxCount,
		); err != nil {
			return fmt.Errorf("inserting crop %s: %w", c.Crop, err)
		}
	}

	return tx.Commit()
}

func loadFromDB(ctx context.Context, db *sql.DB) (*Base, error) {
	b := &Base{
		recipes:          map[agent.Item][]agent.Recipe{},
		smelting:         map[agent.Item]agent.SmeltingRecipe{},
		fuels:            map[agent.Item]int{},
		toolRequirements: map[agent.Item]agent.ToolRequirement{},
		drops:            map[agent.Item]agent.DropRange{},
		crops:            map[agent.Item]agent.DropRange{},
	}

	recipeRows, err := db.QueryContext(ctx, `SELECT id, output_item, output_quantity, requires_station FROM recipes`)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	type partial struct {
		id, output, station string
		qty                 int
	}
	var partials []partial
	for recipeRows.Next() {
		var p partial
		if err := recipeRows.Scan(&p.id, &p.output, &p.qty, &p.station); err != nil {
			_ = recipeRows.Close()
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		partials = append(partials, p)
	}
	if err := recipeRows.Err(); err != nil {
		_ = recipeRows.Close()
		return nil, err
	}
	_ = recipeRows.Close()

	for _, p := range partials {
		compRows, err := db.QueryContext(ctx, `SELECT item, quantity FROM recipe_components WHERE recipe_id = ?`, p.id)
		if err != nil {
			return nil, fmt.Errorf("querying components for %s: %w", p.id, err)
		}
		var comps []agent.RecipeComponent
		for compRows.Next() {
			var item string
			var qty int
			if err := compRows.Scan(&item, &qty); err != nil {
				_ = compRows.Close()
				return nil, fmt.Errorf("scanning component: %w", err)
			}
			comps = append(comps, agent.RecipeComponent{Item: agent.Item(item), Quantity: qty})
		}
		_ = compRows.Close()

		recipe := agent.Recipe{
			ID:              p.id,
			OutputItem:      agent.Item(p.output),
			OutputCount:     p.qty,
			Inputs:          comps,
			RequiresStation: agent.StationKind(p.station),
		}
		b.recipes[recipe.OutputItem] = append(b.recipes[recipe.OutputItem], recipe)
		b.allRecipes = append(b.allRecipes, recipe)
	}
	sort.Slice(b.allRecipes, func(i, j int) bool { return b.allRecipes[i].ID < b.allRecipes[j].ID })
	for item := range b.recipes {
		sort.Slice(b.recipes[item], func(i, j int) bool { return b.recipes[item][i].ID < b.recipes[item][j].ID })
	}

	smeltRows, err := db.QueryContext(ctx, `SELECT output_item, input_item, ticks_per_item FROM smelting_recipes`)
	if err != nil {
		return nil, fmt.Errorf("querying smelting recipes: %w", err)
	}
	for smeltRows.Next() {
		var out, in string
		var ticks int
		if err := smeltRows.Scan(&out, &in, &ticks); err != nil {
			_ = smeltRows.Close()
			return nil, fmt.Errorf("scanning smelting recipe: %w", err)
		}
		b.smelting[agent.Item(out)] = agent.SmeltingRecipe{OutputItem: agent.Item(out), InputItem: agent.Item(in), TicksPerItem: ticks}
	}
	_ = smeltRows.Close()

	altRows, err := db.QueryContext(ctx, `SELECT output_item, input_item FROM smelting_alt_inputs`)
	if err != nil {
		return nil, fmt.Errorf("querying alt inputs: %w", err)
	}
	for altRows.Next() {
		var out, in string
		if err := altRows.Scan(&out, &in); err != nil {
			_ = altRows.Close()
			return nil, fmt.Errorf("scanning alt input: %w", err)
		}
		r := b.smelting[agent.Item(out)]
		r.AlternateInputs = append(r.AlternateInputs, agent.Item(in))
		b.smelting[agent.Item(out)] = r
	}
	_ = altRows.Close()

	fuelRows, err := db.QueryContext(ctx, `SELECT item, ticks FROM fuels`)
	if err != nil {
		return nil, fmt.Errorf("querying fuels: %w", err)
	}
	for fuelRows.Next() {
		var item string
		var ticks int
		if err := fuelRows.Scan(&item, &ticks); err != nil {
			_ = fuelRows.Close()
			return nil, fmt.Errorf("scanning fuel: %w", err)
		}
		b.fuels[agent.Item(item)] = ticks
	}
	_ = fuelRows.Close()

	toolRows, err := db.QueryContext(ctx, `SELECT block, min_tier, tool_kind FROM tool_requirements`)
	if err != nil {
		return nil, fmt.Errorf("querying tool requirements: %w", err)
	}
	for toolRows.Next() {
		var block, tier, kind string
		if err := toolRows.Scan(&block, &tier, &kind); err != nil {
			_ = toolRows.Close()
			return nil, fmt.Errorf("scanning tool requirement: %w", err)
		}
		b.toolRequirements[agent.Item(block)] = agent.ToolRequirement{MinTier: parseTier(tier), ToolKind: agent.ToolKind(kind)}
	}
	_ = toolRows.Close()

	dropRows, err := db.QueryContext(ctx, `SELECT block, item, min_count, max_count FROM block_drops`)
	if err != nil {
		return nil, fmt.Errorf("querying block drops: %w", err)
	}
	for dropRows.Next() {
		var block, item string
		var min, max int
		if err := dropRows.Scan(&block, &item, &min, &max); err != nil {
			_ = dropRows.Close()
			return nil, fmt.Errorf("scanning block drop: %w", err)
		}
		b.drops[agent.Item(block)] = agent.DropRange{Item: agent.Item(item), Min: min, Max: max}
	}
	_ = dropRows.Close()

	cropRows, err := db.QueryContext(ctx, `SELECT crop, drop_item, min_count, max_count FROM harvestable_crops`)
	if err != nil {
		return nil, fmt.Errorf("querying crops: %w", err)
	}
	for cropRows.Next() {
		var crop, item string
		var min, max int
		if err := cropRows.Scan(&crop, &item, &min, &max); err != nil {
			_ = cropRows.Close()
			return nil, fmt.Errorf("scanning crop: %w", err)
		}
		b.crops[agent.Item(crop)] = agent.DropRange{Item: agent.Item(item), Min: min, Max: max}
	}
	_ = cropRows.Close()

	b.blockForItem = reverseDropIndex(b.drops)
	b.cropForItem = reverseDropIndex(b.crops)

	return b, nil
}

// reverseDropIndex inverts a block/crop -> DropRange table into an
// item -> producer map, picking the lexicographically smallest producer
// name whenever more than one block or crop yields the same item (e.g.
// both "stone" and "cobblestone" yield "cobblestone").
func reverseDropIndex(table map[agent.Item]agent.DropRange) map[agent.Item]agent.Item {
	producers := make(map[agent.Item][]agent.Item, len(table))
	for producer, rng := range table {
		producers[rng.Item] = append(producers[rng.Item], producer)
	}
	out := make(map[agent.Item]agent.Item, len(producers))
	for item, names := range producers {
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		out[item] = names[0]
	}
	return out
}

func parseTier(s string) agent.Tier {
	switch s {
	case "wooden":
		return agent.TierWooden
	case "stone":
		return agent.TierStone
	case "iron":
		return agent.TierIron
	case "diamond":
		return agent.TierDiamond
	case "netherite":
		return agent.TierNetherite
	case "unbreakable":
		return agent.TierUnbreakable
	default:
		return agent.TierNone
	}
}
