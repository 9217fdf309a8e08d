package settings

import "context"

type Repository interface {
	// Get returns the stored row, or an error when the user never saved.
	Get(ctx context.Context, userID int64) (*Settings, error)
	// Upsert inserts or patches the row; nil patch fields keep existing
	// values (defaults on first save).
	Upsert(ctx context.Context, userID int64, p *Patch) error
}
