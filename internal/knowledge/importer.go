package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// Importer loads an operator-supplied recipe pack on top of the seed,
// adapted from the teacher's sync package: same "tolerate loosely-shaped
// JSON, transform into domain rows, bulk insert" idea, repurposed from
// "sync from a live MMO" to "load a recipe override file at startup".
type Importer struct {
	dsn string
}

// NewImporter targets the SQLite database at dsn; ImportRecipesFromFile
// opens it, seeds it if empty, applies the override file, and closes it, since importing only
// happens once at process startup, never during a live resolution.
func NewImporter(dsn string) *Importer {
	return &Importer{dsn: dsn}
}

// RecipeImport is the on-disk shape of one overridden or added recipe.
// Field names tolerate the same "id vs item_id" looseness the teacher's
// RecipeImport handled, since operators hand-edit these files.
type RecipeImport struct {
	ID              string `json:"id"`
	OutputItem      string `json:"output_item,omitempty"`
	OutputItemID    string `json:"output_item_id,omitempty"`
	OutputQuantity  int    `json:"output_quantity"`
	RequiresStation string `json:"requires_station,omitempty"`
	Components      []struct {
		Item     string `json:"item,omitempty"`
		ItemID   string `json:"item_id,omitempty"`
		Quantity int    `json:"quantity"`
	} `json:"components"`
}

// ImportRecipesFromFile reads a JSON array of RecipeImport from path and
// inserts them, replacing any existing recipe with the same ID.
func (im *Importer) ImportRecipesFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading recipe pack: %w", err)
	}

	var imports []RecipeImport
	if err := json.Unmarshal(data, &imports); err != nil {
		return fmt.Errorf("parsing recipe pack: %w", err)
	}

	db, err := sql.Open("sqlite", im.dsn+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening knowledge db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := initSchema(ctx, db); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return fmt.Errorf("counting recipes: %w", err)
	}
	if count == 0 {
		if err := seedDefaults(ctx, db); err != nil {
			return fmt.Errorf("seeding knowledge db: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, imp := range imports {
		output := imp.OutputItem
		if output == "" {
			output = imp.OutputItemID
		}
		if output == "" {
			return fmt.Errorf("recipe %s missing output item", imp.ID)
		}
		qty := imp.OutputQuantity
		if qty == 0 {
			qty = 1
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, imp.ID); err != nil {
			return fmt.Errorf("clearing existing recipe %s: %w", imp.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_components WHERE recipe_id = ?`, imp.ID); err != nil {
			return fmt.Errorf("clearing components of %s: %w", imp.ID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (id, output_item, output_quantity, requires_station) VALUES (?, ?, ?, ?)`,
			imp.ID, output, qty, imp.RequiresStation,
		); err != nil {
			return fmt.Errorf("inserting recipe %s: %w", imp.ID, err)
		}

		for _, c := range imp.Components {
			item := c.Item
			if item == "" {
				item = c.ItemID
			}
			if item == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_components (recipe_id, item, quantity) VALUES (?, ?, ?)`,
				imp.ID, item, c.Quantity,
			); err != nil {
				return fmt.Errorf("inserting component of %s: %w", imp.ID, err)
			}
		}
	}

	return tx.Commit()
}
