package testresult

import "context"

type Repository interface {
	Create(ctx context.Context, r *Result) error
	GetByID(ctx context.Context, id int64) (*Result, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Result, int, error)
	Update(ctx context.Context, id int64, p *Patch) error
	Delete(ctx context.Context, id int64) error
}
