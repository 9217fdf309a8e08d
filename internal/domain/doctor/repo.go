package doctor

import "context"

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	GetByCode(ctx context.Context, code string) (*Doctor, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, int, error)
	Update(ctx context.Context, id int64, p *Patch) error
	Deactivate(ctx context.Context, id int64) error
}

type ScheduleRepository interface {
	ListByDoctor(ctx context.Context, doctorID int64) ([]*Schedule, error)
	GetForDay(ctx context.Context, doctorID int64, dayOfWeek int) (*Schedule, error)
	ReplaceAll(ctx context.Context, doctorID int64, schedules []*Schedule) error
}
