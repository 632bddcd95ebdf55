package port

import (
	"context"

	"stockroom/internal/core/domain"
)

// RecordStore keeps one record per item id. Records are field maps in
// the backing store; field-level reads tolerate partially written
// records.
type RecordStore interface {
	// Create writes a new record for the item.
	Create(ctx context.Context, item domain.Item) error

	// Exists reports whether a record exists for id.
	Exists(ctx context.Context, id int64) (bool, error)

	// Fields returns the raw stored field map for id.
	Fields(ctx context.Context, id int64) (map[string]string, error)

	// Name reads the name field. ok is false when the field is absent.
	Name(ctx context.Context, id int64) (name string, ok bool, err error)

	// Quantity reads the quantity field. ok is false when the field is
	// absent.
	Quantity(ctx context.Context, id int64) (quantity int64, ok bool, err error)

	// IncrQuantity atomically adds delta (signed) to the quantity field
	// using the store's increment primitive and returns the new value.
	IncrQuantity(ctx context.Context, id int64, delta int64) (int64, error)

	// Delete removes the record entirely.
	Delete(ctx context.Context, id int64) error
}
