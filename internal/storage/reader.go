package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// SymbolRow is one flattened symbol as stored in the symbols table.
type SymbolRow struct {
	FilePath  string
	Kind      string
	Name      string
	Line      int
	Parent    string
	Params    []string
	LocalVars []string
	Modules   []string
	Module    string
}

// Reader queries exported scans.
type Reader struct {
	db *sql.DB
}

// NewReader opens an existing scan database read-side.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Reader{db: db}, nil
}

// Close closes the underlying database.
func (r *Reader) Close() error {
	return r.db.Close()
}

// LatestScanID returns the most recently written scan id, or sql.ErrNoRows.
func (r *Reader) LatestScanID() (string, error) {
	var scanID string
	err := sq.Select("scan_id").
		From("scans").
		OrderBy("created_at DESC", "rowid DESC").
		Limit(1).
		RunWith(r.db).
		QueryRow().
		Scan(&scanID)
	if err != nil {
		return "", err
	}
	return scanID, nil
}

// QuerySymbols returns the symbols of one scan, optionally filtered by
// kind, ordered by file then line.
func (r *Reader) QuerySymbols(scanID, kind string) ([]SymbolRow, error) {
	query := sq.Select("file_path", "kind", "name", "line", "parent", "params", "local_vars", "modules", "module").
		From("symbols").
		Where(sq.Eq{"scan_id": scanID}).
		OrderBy("file_path", "line", "id")
	if kind != "" {
		query = query.Where(sq.Eq{"kind": kind})
	}

	rows, err := query.RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var out []SymbolRow
	for rows.Next() {
		var row SymbolRow
		var line sql.NullInt64
		var params, localVars, modules string
		if err := rows.Scan(&row.FilePath, &row.Kind, &row.Name, &line, &row.Parent,
			&params, &localVars, &modules, &row.Module); err != nil {
			return nil, fmt.Errorf("failed to scan symbol row: %w", err)
		}
		row.Line = int(line.Int64)
		row.Params = decodeList(params)
		row.LocalVars = decodeList(localVars)
		row.Modules = decodeList(modules)
		out = append(out, row)
	}
	return out, rows.Err()
}

func decodeList(data string) []string {
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}
