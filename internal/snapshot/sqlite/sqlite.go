// Package sqlite stores roster snapshots in a local SQLite file.
// This is the default backend: no external service, one file on disk.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/certeo/roster/internal/roster"
)

// Store persists roster snapshots to a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the snapshot database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS participants (
	  position INTEGER PRIMARY KEY,
	  name TEXT NOT NULL,
	  email TEXT NOT NULL,
	  role TEXT NOT NULL,
	  rank INTEGER
	);
	`)
	return err
}

// Save replaces the stored snapshot with the given records. The delete
// and inserts run in one transaction so a failed save leaves the previous
// snapshot intact.
func (s *Store) Save(ctx context.Context, records []roster.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants`); err != nil {
		return fmt.Errorf("save snapshot: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO participants (position, name, email, role, rank) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save snapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		var rank any
		if rec.Ranked() {
			rank = rec.Rank
		}
		if _, err := stmt.ExecContext(ctx, i, rec.Name, rec.Email, string(rec.Role), rank); err != nil {
			return fmt.Errorf("save snapshot: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

// Load returns the stored snapshot in its saved order.
func (s *Store) Load(ctx context.Context) ([]roster.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, email, role, rank FROM participants ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	var out []roster.Record
	for rows.Next() {
		var rec roster.Record
		var role string
		var rank sql.NullInt64
		if err := rows.Scan(&rec.Name, &rec.Email, &role, &rank); err != nil {
			return nil, fmt.Errorf("load snapshot: scan: %w", err)
		}
		rec.Role = roster.Role(role)
		if rank.Valid {
			rec.Rank = int(rank.Int64)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
