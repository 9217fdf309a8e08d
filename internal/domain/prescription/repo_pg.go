package prescription

import (
	"context"
	"encoding/json"
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

const cols = `rx.id, rx.number, rx.patient_id, rx.doctor_id, rx.clinic_id,
	rx.items, rx.notes,
	COALESCE(p.name, ''), COALESCE(COALESCE(u.name, d.name), ''),
	rx.created_at, rx.updated_at`

const fromClause = ` FROM prescriptions rx
	LEFT JOIN patients p ON p.id = rx.patient_id
	LEFT JOIN doctors d ON d.id = rx.doctor_id
	LEFT JOIN users u ON u.id = d.user_id`

func scan(row pgx.Row) (*Prescription, error) {
	var rx Prescription
	var items []byte
	err := row.Scan(&rx.ID, &rx.Number, &rx.PatientID, &rx.DoctorID, &rx.ClinicID,
		&items, &rx.Notes, &rx.PatientName, &rx.DoctorName, &rx.CreatedAt, &rx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &rx.Items); err != nil {
		return nil, err
	}
	return &rx, nil
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return err
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (number, patient_id, doctor_id, clinic_id, items, notes)
		VALUES ($1,$2,$3,$4,$5::jsonb,$6)
		RETURNING id, created_at, updated_at`,
		p.Number, p.PatientID, p.DoctorID, p.ClinicID, items, p.Notes).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Prescription, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+fromClause+` WHERE rx.id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Prescription, int, error) {
	query := `SELECT ` + cols + fromClause + ` WHERE 1=1`
	countQuery := `SELECT COUNT(*)` + fromClause + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	add := func(cond string, val interface{}) {
		clause := fmt.Sprintf(cond, idx)
		query += clause
		countQuery += clause
		args = append(args, val)
		idx++
	}
	if f.ClinicID > 0 {
		add(` AND rx.clinic_id = $%d`, f.ClinicID)
	}
	if f.PatientID > 0 {
		add(` AND rx.patient_id = $%d`, f.PatientID)
	}
	if f.DoctorID > 0 {
		add(` AND rx.doctor_id = $%d`, f.DoctorID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY rx.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		rx, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rx)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id int64, p *Patch) error {
	var items []byte
	if p.Items != nil {
		b, err := json.Marshal(*p.Items)
		if err != nil {
			return err
		}
		items = b
	}
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescriptions SET
			items = COALESCE($2::jsonb, items),
			notes = COALESCE($3, notes),
			updated_at = NOW()
		WHERE id = $1`,
		id, items, p.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	return err
}
