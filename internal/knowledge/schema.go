// Package knowledge is the Static Knowledge Base (§4.1): recipe table,
// smelting table, fuel table, tool-tier table, and block->drop table. The
// package loads its data from SQLite at construction time only — Load
// returns a Base value that performs no I/O afterward, satisfying
// "No I/O. Immutable after construction."
package knowledge

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
)

//go:embed schema.sql
var schemaFS embed.FS

// Schema returns the embedded SQL schema.
func Schema() (string, error) {
	data, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return "", fmt.Errorf("reading embedded schema: %w", err)
	}
	return string(data), nil
}

// initSchema creates all tables if they don't already exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema, err := Schema()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}
