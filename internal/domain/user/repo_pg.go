package user

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

const cols = `id, name, email, password_hash, role, status, clinic_id, phone, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.ClinicID, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, status, clinic_id, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Status, u.ClinicID, u.Phone).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM users WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*User, int, error) {
	query := `SELECT ` + cols + ` FROM users WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM users WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Role != "" {
		query += fmt.Sprintf(` AND role = $%d`, idx)
		countQuery += fmt.Sprintf(` AND role = $%d`, idx)
		args = append(args, f.Role)
		idx++
	}
	if f.ClinicID > 0 {
		query += fmt.Sprintf(` AND clinic_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND clinic_id = $%d`, idx)
		args = append(args, f.ClinicID)
		idx++
	}
	if f.Search != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, idx, idx)
		countQuery += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, idx, idx)
		args = append(args, "%"+f.Search+"%")
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
	var items []*User
	for rows.Next() {
		u, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id int64, p *Patch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			clinic_id = COALESCE($4, clinic_id),
			updated_at = NOW()
		WHERE id = $1`,
		id, p.Name, p.Phone, p.ClinicID)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	return err
}
