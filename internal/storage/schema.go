package storage

import (
	"database/sql"
	"fmt"
)

const createScansTable = `
CREATE TABLE IF NOT EXISTS scans (
	scan_id TEXT PRIMARY KEY,
	root TEXT NOT NULL,
	created_at TEXT NOT NULL,
	file_count INTEGER NOT NULL,
	failed_count INTEGER NOT NULL
)`

const createSymbolsTable = `
CREATE TABLE IF NOT EXISTS symbols (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scan_id TEXT NOT NULL REFERENCES scans(scan_id) ON DELETE CASCADE,
	file_path TEXT NOT NULL,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	line INTEGER,
	parent TEXT NOT NULL DEFAULT '',
	params TEXT NOT NULL DEFAULT '[]',
	local_vars TEXT NOT NULL DEFAULT '[]',
	modules TEXT NOT NULL DEFAULT '[]',
	module TEXT NOT NULL DEFAULT ''
)`

const createFailuresTable = `
CREATE TABLE IF NOT EXISTS failures (
	scan_id TEXT NOT NULL REFERENCES scans(scan_id) ON DELETE CASCADE,
	file_path TEXT NOT NULL,
	error TEXT NOT NULL
)`

var schemaIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_symbols_scan ON symbols(scan_id)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(scan_id, file_path)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(scan_id, kind)`,
}

// CreateSchema creates all tables and indexes for exported scans.
// Atomic: all schema creation succeeds or fails together. Must be
// called with PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"scans", createScansTable},
		{"symbols", createSymbolsTable},
		{"failures", createFailuresTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for _, idx := range schemaIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}
