package appointment

import "context"

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error)
	// BookedTimes returns the HH:MM times of non-cancelled appointments for
	// a doctor on a date.
	BookedTimes(ctx context.Context, doctorID int64, date string) ([]string, error)
	Update(ctx context.Context, id int64, p *Patch) error
	UpdateStatus(ctx context.Context, id int64, status string) error
}
