package medreport

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

const cols = `mr.id, mr.number, mr.patient_id, mr.doctor_id, mr.clinic_id,
	mr.diagnosis, mr.findings, mr.recommendations, to_char(mr.report_date, 'YYYY-MM-DD'),
	COALESCE(p.name, ''), COALESCE(COALESCE(u.name, d.name), ''),
	mr.created_at, mr.updated_at`

const fromClause = ` FROM medical_reports mr
	LEFT JOIN patients p ON p.id = mr.patient_id
	LEFT JOIN doctors d ON d.id = mr.doctor_id
	LEFT JOIN users u ON u.id = d.user_id`

func scan(row pgx.Row) (*Report, error) {
	var rep Report
	err := row.Scan(&rep.ID, &rep.Number, &rep.PatientID, &rep.DoctorID, &rep.ClinicID,
		&rep.Diagnosis, &rep.Findings, &rep.Recommendations, &rep.ReportDate,
		&rep.PatientName, &rep.DoctorName, &rep.CreatedAt, &rep.UpdatedAt)
	return &rep, err
}

func (r *repoPG) Create(ctx context.Context, rep *Report) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_reports (number, patient_id, doctor_id, clinic_id, diagnosis, findings, recommendations, report_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8::date)
		RETURNING id, created_at, updated_at`,
		rep.Number, rep.PatientID, rep.DoctorID, rep.ClinicID,
		rep.Diagnosis, rep.Findings, rep.Recommendations, rep.ReportDate).
		Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Report, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+fromClause+` WHERE mr.id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Report, int, error) {
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
		add(` AND mr.clinic_id = $%d`, f.ClinicID)
	}
	if f.PatientID > 0 {
		add(` AND mr.patient_id = $%d`, f.PatientID)
	}
	if f.DoctorID > 0 {
		add(` AND mr.doctor_id = $%d`, f.DoctorID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY mr.report_date DESC, mr.id DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		rep, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rep)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id int64, p *Patch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medical_reports SET
			diagnosis = COALESCE($2, diagnosis),
			findings = COALESCE($3, findings),
			recommendations = COALESCE($4, recommendations),
			report_date = COALESCE($5::date, report_date),
			updated_at = NOW()
		WHERE id = $1`,
		id, p.Diagnosis, p.Findings, p.Recommendations, p.ReportDate)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_reports WHERE id = $1`, id)
	return err
}
