package playlist

import "context"

// Repository is durable keyed storage of playlist documents: one record
// per playlist, keyed by its identifier.
//
// Mutate is the only write path besides Create. Implementations must
// serialize concurrent Mutate calls for the same id (at most one
// in-flight writer per playlist) while letting different ids proceed in
// parallel, and must release the per-id serialization on every exit
// path, including when fn fails. When fn returns an error nothing is
// persisted and the error is returned unchanged.
type Repository interface {
	// Create mints an id, persists a playlist with no items, and
	// returns the stored document.
	Create(ctx context.Context, name, description string) (*Playlist, error)

	// Get returns the playlist or ErrNotFound.
	Get(ctx context.Context, id string) (*Playlist, error)

	// Mutate loads the current document, applies fn, persists the
	// result, and returns it. Returns ErrNotFound if id does not
	// resolve.
	Mutate(ctx context.Context, id string, fn func(*Playlist) error) (*Playlist, error)
}
