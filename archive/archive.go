// Package archive persists finished phase results as an append-only JSON
// blob table, grounded on the teacher pack's sqlite usage
// (FerrLab-airspace-acars/db.go).
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is a sqlite-backed append-only archive of simulation results.
type Store struct {
	db *sql.DB
}

// Open creates or opens a sqlite database at path and ensures its schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open db: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS phase_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		vehicle TEXT NOT NULL,
		data TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: create table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save marshals result as JSON and appends it under the given vehicle name.
func (s *Store) Save(vehicleName string, result any) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("archive: marshal result: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO phase_results (vehicle, data) VALUES (?, ?)`, vehicleName, string(blob))
	if err != nil {
		return fmt.Errorf("archive: insert result: %w", err)
	}
	return nil
}

// Recent returns the JSON blobs of the last n results for a vehicle, most
// recent first.
func (s *Store) Recent(vehicleName string, n int) ([]string, error) {
	rows, err := s.db.Query(`SELECT data FROM phase_results WHERE vehicle = ? ORDER BY id DESC LIMIT ?`, vehicleName, n)
	if err != nil {
		return nil, fmt.Errorf("archive: query results: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("archive: scan result: %w", err)
		}
		out = append(out, data)
	}
	return out, rows.Err()
}
