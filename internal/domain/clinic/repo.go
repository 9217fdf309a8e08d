package clinic

import "context"

type Repository interface {
	Create(ctx context.Context, c *Clinic) error
	GetByID(ctx context.Context, id int64) (*Clinic, error)
	GetByCode(ctx context.Context, code string) (*Clinic, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, search string, limit, offset int) ([]*Clinic, int, error)
	Update(ctx context.Context, id int64, p *Patch) error
	Deactivate(ctx context.Context, id int64) error
}
