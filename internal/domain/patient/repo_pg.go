package patient

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

const cols = `id, medical_record_number, name, email, phone,
	to_char(date_of_birth, 'YYYY-MM-DD'), gender, address, password_hash, clinic_id,
	created_at, updated_at, deleted_at`

func (r *repoPG) scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.MedicalRecordNumber, &p.Name, &p.Email, &p.Phone,
		&p.DateOfBirth, &p.Gender, &p.Address, &p.PasswordHash, &p.ClinicID,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	return &p, err
}

// Create inserts the row, then derives the medical record number from the
// generated id (MR- plus the id zero-padded to six digits).
func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (name, email, phone, date_of_birth, gender, address, password_hash, clinic_id)
		VALUES ($1,$2,$3,NULLIF($4,'')::date,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Email, p.Phone, deref(p.DateOfBirth), p.Gender, p.Address, p.PasswordHash, p.ClinicID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}

	p.MedicalRecordNumber = fmt.Sprintf("MR-%06d", p.ID)
	_, err = r.conn(ctx).Exec(ctx,
		`UPDATE patients SET medical_record_number = $2 WHERE id = $1`,
		p.ID, p.MedicalRecordNumber)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM patients WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *repoPG) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM patients WHERE medical_record_number = $1 AND deleted_at IS NULL`, mrn))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM patients WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`, email))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	query := `SELECT ` + cols + ` FROM patients WHERE deleted_at IS NULL`
	countQuery := `SELECT COUNT(*) FROM patients WHERE deleted_at IS NULL`
	var args []interface{}
	idx := 1

	if f.ClinicID > 0 {
		query += fmt.Sprintf(` AND clinic_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND clinic_id = $%d`, idx)
		args = append(args, f.ClinicID)
		idx++
	}
	if f.Search != "" {
		cond := fmt.Sprintf(` AND (name ILIKE $%d OR phone ILIKE $%d OR medical_record_number ILIKE $%d)`, idx, idx, idx)
		query += cond
		countQuery += cond
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
	var items []*Patient
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id int64, p *Patch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			date_of_birth = COALESCE(NULLIF($5,'')::date, date_of_birth),
			gender = COALESCE($6, gender),
			address = COALESCE($7, address),
			clinic_id = COALESCE($8, clinic_id),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, p.Name, p.Email, p.Phone, deref(p.DateOfBirth), p.Gender, p.Address, p.ClinicID)
	return err
}

func (r *repoPG) SoftDelete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	return err
}
