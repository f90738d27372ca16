package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id              TEXT    PRIMARY KEY,
		title           TEXT    NOT NULL DEFAULT '',
		description     TEXT    NOT NULL DEFAULT '',
		address         TEXT    NOT NULL,
		city            TEXT    NOT NULL DEFAULT '',
		state           TEXT    NOT NULL DEFAULT '',
		zip_code        TEXT    NOT NULL DEFAULT '',
		property_type   TEXT    NOT NULL DEFAULT '',
		price           INTEGER,
		bedrooms        INTEGER CHECK (bedrooms IS NULL OR bedrooms >= 0),
		bathrooms       REAL    CHECK (bathrooms IS NULL OR bathrooms >= 0),
		sqft            INTEGER,
		status          TEXT    NOT NULL DEFAULT '',
		created_at      TEXT,
		updated_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	// Column additions are skipped when the column already exists.
	columnMigrations := []struct {
		table, column, definition string
	}{
		{"listings", "tier", "TEXT NOT NULL DEFAULT ''"},
		{"listings", "investment_type", "TEXT NOT NULL DEFAULT ''"},
		{"listings", "latitude", "REAL"},
		{"listings", "longitude", "REAL"},
		{"listings", "image_url", "TEXT NOT NULL DEFAULT ''"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	exists, err := columnExists(db, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}

func columnExists(db *sql.DB, table, column string) (found bool, err error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("checking table info: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue any
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("scanning column info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterating columns: %w", err)
	}
	return false, nil
}
