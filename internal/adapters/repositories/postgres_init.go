package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the catalog schema.
// The UNIQUE constraint on routes.name is a backstop: uniqueness is checked
// inside each serializable write transaction, and the constraint catches
// anything the isolation level lets through.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		creation_date TIMESTAMP WITH TIME ZONE NOT NULL,
		distance INTEGER NOT NULL,
		rating BIGINT NOT NULL,
		coordinate_x DOUBLE PRECISION NOT NULL,
		coordinate_y REAL NOT NULL,
		from_name VARCHAR(255) NOT NULL,
		from_x BIGINT NOT NULL,
		from_y INTEGER NOT NULL,
		to_name VARCHAR(255),
		to_x BIGINT,
		to_y INTEGER
	);
	`

	createImportOperationsQuery := `
	CREATE TABLE IF NOT EXISTS import_operations (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		added_count INTEGER
	);
	`

	createRatingIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_rating ON routes(rating);
	`

	statements := []string{
		createRoutesQuery,
		createImportOperationsQuery,
		createRatingIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
