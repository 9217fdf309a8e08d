package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, id int64, p *Patch) error
	SoftDelete(ctx context.Context, id int64) error
}
