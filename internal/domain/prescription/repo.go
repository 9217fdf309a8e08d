package prescription

import "context"

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id int64) (*Prescription, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Prescription, int, error)
	Update(ctx context.Context, id int64, p *Patch) error
	Delete(ctx context.Context, id int64) error
}
