// Package postgres stores roster snapshots in PostgreSQL, for deployments
// that already run one. Bulk writes use the COPY protocol.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/certeo/roster/internal/roster"
)

// Store persists roster snapshots to a PostgreSQL database.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database at url and ensures the snapshot table
// exists.
func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	_, err = pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS participants (
	  position INTEGER PRIMARY KEY,
	  name TEXT NOT NULL,
	  email TEXT NOT NULL,
	  role TEXT NOT NULL,
	  rank INTEGER
	)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Save replaces the stored snapshot with the given records. The clear and
// the COPY run in one transaction so a failed save leaves the previous
// snapshot intact.
func (s *Store) Save(ctx context.Context, records []roster.Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM participants`); err != nil {
		return fmt.Errorf("save snapshot: clear: %w", err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rank := pgtype.Int4{}
		if rec.Ranked() {
			rank = pgtype.Int4{Int32: int32(rec.Rank), Valid: true}
		}
		rows[i] = []any{i, rec.Name, rec.Email, string(rec.Role), rank}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"participants"},
		[]string{"position", "name", "email", "role", "rank"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

// Load returns the stored snapshot in its saved order.
func (s *Store) Load(ctx context.Context) ([]roster.Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, email, role, rank FROM participants ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	var out []roster.Record
	for rows.Next() {
		var rec roster.Record
		var role string
		var rank pgtype.Int4
		if err := rows.Scan(&rec.Name, &rec.Email, &role, &rank); err != nil {
			return nil, fmt.Errorf("load snapshot: scan: %w", err)
		}
		rec.Role = roster.Role(role)
		if rank.Valid {
			rec.Rank = int(rank.Int32)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
