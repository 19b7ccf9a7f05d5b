package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Schema returns the DDL for a driver name (pgx or sqlite3).
func Schema(driver string) (string, error) {
	var name string
	switch driver {
	case "pgx", "postgres":
		name = "schema/postgres.sql"
	case "sqlite3":
		name = "schema/sqlite.sql"
	default:
		return "", fmt.Errorf("no schema for driver %s", driver)
	}
	content, err := schemaFiles.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// ApplySchema creates every ledger table that does not exist yet, in one transaction.
func ApplySchema(ctx context.Context, db *sql.DB, driver string) error {
	schema, err := Schema(driver)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, statement := range strings.Split(schema, ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return tx.Commit()
}
