// Package storage persists scan results to a SQLite database for later
// querying. It is strictly a consumer of the pipeline's symbol records;
// the parse-and-extract core never touches it.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/semanta/internal/scanner"
	"github.com/mvp-joe/semanta/internal/symbols"
)

// Writer handles writing scan results to SQLite. Uses transactions for
// atomic updates: a scan is stored completely or not at all.
type Writer struct {
	db *sql.DB
}

// NewWriter opens or creates a SQLite database for scan storage and
// ensures the schema exists.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Writer{db: db}, nil
}

// Close closes the underlying database.
func (w *Writer) Close() error {
	return w.db.Close()
}

// DB exposes the underlying handle for read-side helpers.
func (w *Writer) DB() *sql.DB {
	return w.db
}

// WriteScan stores one scan: a scans row plus a flattened symbol row
// per record (methods get their own rows with the class as parent) and
// a failures row per unparseable file. Atomic.
func (w *Writer) WriteScan(scanID, root string, results []scanner.FileResult) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}

	_, err = sq.Insert("scans").
		Columns("scan_id", "root", "created_at", "file_count", "failed_count").
		Values(scanID, root, time.Now().UTC().Format(time.RFC3339), len(results), failed).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert scan %s: %w", scanID, err)
	}

	for _, result := range results {
		if result.Err != nil {
			_, err := sq.Insert("failures").
				Columns("scan_id", "file_path", "error").
				Values(scanID, result.Path, result.Err.Error()).
				RunWith(tx).
				Exec()
			if err != nil {
				return fmt.Errorf("failed to insert failure for %s: %w", result.Path, err)
			}
			continue
		}

		for _, record := range result.Records {
			if err := insertRecord(tx, scanID, result.Path, record); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertRecord(tx *sql.Tx, scanID, filePath string, record symbols.Record) error {
	switch rec := record.(type) {
	case symbols.FunctionSymbol:
		return insertFunctionRow(tx, scanID, filePath, rec, "")
	case symbols.ClassSymbol:
		_, err := sq.Insert("symbols").
			Columns("scan_id", "file_path", "kind", "name", "line").
			Values(scanID, filePath, rec.Kind(), rec.Name, rec.Line).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert class %s: %w", rec.Name, err)
		}
		for _, method := range rec.Methods {
			if err := insertFunctionRow(tx, scanID, filePath, method, rec.Name); err != nil {
				return err
			}
		}
		return nil
	case symbols.ImportSymbol:
		_, err := sq.Insert("symbols").
			Columns("scan_id", "file_path", "kind", "name", "modules").
			Values(scanID, filePath, rec.Kind(), firstOf(rec.Modules), jsonList(rec.Modules)).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert import: %w", err)
		}
		return nil
	case symbols.ImportFromSymbol:
		_, err := sq.Insert("symbols").
			Columns("scan_id", "file_path", "kind", "name", "module", "modules").
			Values(scanID, filePath, rec.Kind(), rec.Module, rec.Module, jsonList(rec.Names)).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert import-from: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown record kind %q", record.Kind())
}

func insertFunctionRow(tx *sql.Tx, scanID, filePath string, fn symbols.FunctionSymbol, parent string) error {
	kind := "function"
	if parent != "" {
		kind = "method"
	}
	_, err := sq.Insert("symbols").
		Columns("scan_id", "file_path", "kind", "name", "line", "parent", "params", "local_vars").
		Values(scanID, filePath, kind, fn.Name, fn.Line, parent, jsonList(fn.Params), jsonList(fn.LocalVars)).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert function %s: %w", fn.Name, err)
	}
	return nil
}

// jsonList encodes a string slice as a JSON array column. nil encodes
// as [] so queries never see SQL NULL.
func jsonList(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
