package testresult

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

// Stored names win; joined rows fill the gap for legacy writes.
const cols = `tr.id, tr.patient_id, tr.doctor_id, tr.test_type,
	to_char(tr.test_date, 'YYYY-MM-DD'), tr.findings, tr.notes,
	COALESCE(NULLIF(tr.patient_name, ''), p.name, ''),
	COALESCE(NULLIF(tr.doctor_name, ''), u.name, d.name, ''),
	tr.created_at, tr.updated_at`

const fromClause = ` FROM test_results tr
	LEFT JOIN patients p ON p.id = tr.patient_id
	LEFT JOIN doctors d ON d.id = tr.doctor_id
	LEFT JOIN users u ON u.id = d.user_id`

func scan(row pgx.Row) (*Result, error) {
	var res Result
	err := row.Scan(&res.ID, &res.PatientID, &res.DoctorID, &res.TestType,
		&res.TestDate, &res.Findings, &res.Notes,
		&res.PatientName, &res.DoctorName, &res.CreatedAt, &res.UpdatedAt)
	return &res, err
}

func (r *repoPG) Create(ctx context.Context, res *Result) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO test_results (patient_id, doctor_id, test_type, test_date, findings, notes, patient_name, doctor_name)
		VALUES ($1,$2,$3,$4::date,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		res.PatientID, res.DoctorID, res.TestType, res.TestDate,
		res.Findings, res.Notes, res.PatientName, res.DoctorName).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Result, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+fromClause+` WHERE tr.id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Result, int, error) {
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
		// clinic scoping runs through the performing doctor
		add(` AND d.clinic_id = $%d`, f.ClinicID)
	}
	if f.PatientID > 0 {
		add(` AND tr.patient_id = $%d`, f.PatientID)
	}
	if f.DoctorID > 0 {
		add(` AND tr.doctor_id = $%d`, f.DoctorID)
	}
	if f.TestType != "" {
		add(` AND tr.test_type = $%d`, f.TestType)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY tr.test_date DESC, tr.id DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Result
	for rows.Next() {
		res, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, res)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id int64, p *Patch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE test_results SET
			test_type = COALESCE($2, test_type),
			test_date = COALESCE($3::date, test_date),
			findings = COALESCE($4, findings),
			notes = COALESCE($5, notes),
			updated_at = NOW()
		WHERE id = $1`,
		id, p.TestType, p.TestDate, p.Findings, p.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM test_results WHERE id = $1`, id)
	return err
}
