package port

import "context"

// Directory is the name-to-identifier index. Identifiers come from a
// single shared counter, so they are dense and ordered by creation time
// across all names.
type Directory interface {
	// Resolve looks up the id for a name. ok is false when the name is
	// not indexed.
	Resolve(ctx context.Context, name string) (id int64, ok bool, err error)

	// NextID atomically generates a new positive id. Ids are strictly
	// increasing and never reused, even after deletion.
	NextID(ctx context.Context) (int64, error)

	// Link associates name with id in the index.
	Link(ctx context.Context, name string, id int64) error

	// Unlink removes the name's association. The counter is unaffected.
	Unlink(ctx context.Context, name string) error

	// Entries returns the full name-to-id index.
	Entries(ctx context.Context) (map[string]int64, error)
}
