package clinic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcore/eyeclinic-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const cols = `id, name, code, address, phone, email, is_active, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Address, &c.Phone, &c.Email,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Clinic) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinics (name, code, address, phone, email)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, is_active, created_at, updated_at`,
		c.Name, c.Code, c.Address, c.Phone, c.Email).
		Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Clinic, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM clinics WHERE id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Clinic, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM clinics WHERE code = $1`, code))
}

func (r *repoPG) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM clinics WHERE LOWER(name) = LOWER($1))`, name).Scan(&exists)
	return exists, err
}

func (r *repoPG) List(ctx context.Context, search string, limit, offset int) ([]*Clinic, int, error) {
	query := `SELECT ` + cols + ` FROM clinics WHERE is_active = TRUE`
	countQuery := `SELECT COUNT(*) FROM clinics WHERE is_active = TRUE`
	var args []interface{}
	idx := 1

	if search != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Clinic
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id int64, p *Patch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinics SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			phone = COALESCE($4, phone),
			email = COALESCE($5, email),
			is_active = COALESCE($6, is_active),
			updated_at = NOW()
		WHERE id = $1`,
		id, p.Name, p.Address, p.Phone, p.Email, p.IsActive)
	return err
}

func (r *repoPG) Deactivate(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE clinics SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return err
}
