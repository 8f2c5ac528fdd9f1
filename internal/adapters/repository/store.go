// Package repository defines the snapshot store interface and its
// implementations. The store holds raw snapshot rows only; computed
// activity events are never persisted.
package repository

import (
	"context"
	"time"

	"github.com/warfroggy/clashlens/internal/domain/model"
)

// Store provides access to persisted snapshot rows for one clan's players.
//
// History must return rows in insertion order: the timeline engine's
// same-timestamp tie-break depends on stable input order.
type Store interface {
	// Save persists one raw snapshot row for a player. Saving a row whose
	// ID already exists is a no-op.
	Save(ctx context.Context, playerTag string, row model.RawSnapshot) error

	// History returns a player's rows observed at or after since. A zero
	// since returns everything. Returns ErrNotFound for unknown players.
	History(ctx context.Context, playerTag string, since time.Time) ([]model.RawSnapshot, error)

	// Players lists the tags with at least one stored row.
	Players(ctx context.Context) ([]string, error)

	// Count returns the total number of stored rows.
	Count(ctx context.Context) int
}
