package medreport

import "context"

type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id int64) (*Report, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Report, int, error)
	Update(ctx context.Context, id int64, p *Patch) error
	Delete(ctx context.Context, id int64) error
}
