package waitingroom

import "context"

type Repository interface {
	// Add inserts the entry with position = max+1 for its clinic and date.
	Add(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id int64) (*Entry, error)
	// ListByDate returns the queue for a clinic and date ordered by position.
	// A zero clinicID lists all clinics.
	ListByDate(ctx context.Context, clinicID int64, date string) ([]*Entry, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// Remove deletes the entry and closes the position gap it leaves.
	Remove(ctx context.Context, id int64) error
	// FirstWaiting returns the lowest-position waiting entry.
	FirstWaiting(ctx context.Context, clinicID int64, date string) (*Entry, error)
}
