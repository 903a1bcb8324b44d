// Package snapshot persists a durable copy of the roster.
//
// The engine itself is not responsible for durability; it only signals
// "roster changed, here is the new full contents" through the Saver
// interface. Each Save replaces the previous snapshot wholesale, mirroring
// the all-or-nothing commit at the roster's ReplaceAll boundary.
package snapshot

import (
	"context"

	"github.com/certeo/roster/internal/roster"
)

// Saver stores and restores complete roster snapshots.
type Saver interface {
	// Save replaces the stored snapshot with the given records.
	Save(ctx context.Context, records []roster.Record) error

	// Load returns the stored snapshot, or an empty slice when none exists.
	Load(ctx context.Context) ([]roster.Record, error)

	// Close releases the underlying store.
	Close() error
}
