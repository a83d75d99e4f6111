package store

import (
	"context"

	"github.com/feral-file/ray-indexer/internal/store/schema"
)

// Store defines the interface for entity persistence.
// A missing entity is reported as (false, nil), never as an error.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Load fills the zero-valued dest with the entity of dest's kind stored under id.
	// It reports whether the entity exists.
	Load(ctx context.Context, id string, dest schema.Entity) (bool, error)
	// Save inserts or fully replaces the entity
	Save(ctx context.Context, entity schema.Entity) error
	// Count returns the number of stored entities of a kind
	Count(ctx context.Context, kind schema.EntityKind) (int64, error)
	// WithTx runs fn against a store bound to a single transaction.
	// Writes made by fn are visible to its own reads and are discarded if fn returns an error.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	KeyValueStore
}

// KeyValueStore stores arbitrary state such as block cursors
type KeyValueStore interface {
	// SetKeyValue sets a key-value pair
	SetKeyValue(ctx context.Context, key string, value string) error
	// GetKeyValue retrieves a value by key, returning "" when the key is absent
	GetKeyValue(ctx context.Context, key string) (string, error)
}
