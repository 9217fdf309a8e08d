package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*User, int, error)
	Update(ctx context.Context, id int64, p *Patch) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
