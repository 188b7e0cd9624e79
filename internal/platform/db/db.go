package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open a pooled connection to the catalog database via the pgx stdlib driver.
// The pool is sized so that each in-flight write transaction owns exactly one
// connection without starving concurrent reads.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
