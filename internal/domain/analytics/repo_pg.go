package analytics

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

func clinicClause(clinicID int64, args *[]interface{}) string {
	if clinicID <= 0 {
		return ""
	}
	*args = append(*args, clinicID)
	return fmt.Sprintf(" AND clinic_id = $%d", len(*args))
}

func (r *repoPG) CountByStatus(ctx context.Context, clinicID int64, from, to string) (map[string]int, error) {
	args := []interface{}{from, to}
	query := `
		SELECT status, COUNT(*) FROM appointments
		WHERE date BETWEEN $1::date AND $2::date` + clinicClause(clinicID, &args) + `
		GROUP BY status`
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, nil
}

func (r *repoPG) CountNewPatients(ctx context.Context, clinicID int64, from, to string) (int, error) {
	args := []interface{}{from, to}
	query := `
		SELECT COUNT(*) FROM patients
		WHERE deleted_at IS NULL
		AND created_at::date BETWEEN $1::date AND $2::date` + clinicClause(clinicID, &args)
	var n int
	err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *repoPG) Series(ctx context.Context, clinicID int64, from, to, granularity string) ([]SeriesPoint, error) {
	layout := map[string]string{
		"hour":  "YYYY-MM-DD HH24:00",
		"day":   "YYYY-MM-DD",
		"month": "YYYY-MM",
	}[granularity]
	if layout == "" {
		return nil, fmt.Errorf("unknown granularity %q", granularity)
	}
	args := []interface{}{granularity, layout, from, to}
	query := `
		SELECT to_char(date_trunc($1, (date + time)::timestamp), $2) AS bucket, COUNT(*)
		FROM appointments
		WHERE date BETWEEN $3::date AND $4::date` + clinicClause(clinicID, &args) + `
		GROUP BY bucket
		ORDER BY bucket`
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []SeriesPoint
	for rows.Next() {
		var p SeriesPoint
		if err := rows.Scan(&p.Bucket, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func (r *repoPG) ByDoctor(ctx context.Context, clinicID int64, from, to string) ([]DoctorBreakdown, error) {
	args := []interface{}{from, to}
	query := `
		SELECT a.doctor_id, COALESCE(COALESCE(u.name, d.name), ''),
			COUNT(*),
			COUNT(*) FILTER (WHERE a.status = 'completed'),
			COUNT(*) FILTER (WHERE a.status = 'cancelled')
		FROM appointments a
		LEFT JOIN doctors d ON d.id = a.doctor_id
		LEFT JOIN users u ON u.id = d.user_id
		WHERE a.date BETWEEN $1::date AND $2::date`
	if clinicID > 0 {
		args = append(args, clinicID)
		query += fmt.Sprintf(" AND a.clinic_id = $%d", len(args))
	}
	query += `
		GROUP BY a.doctor_id, COALESCE(u.name, d.name)
		ORDER BY COUNT(*) DESC`
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DoctorBreakdown
	for rows.Next() {
		var b DoctorBreakdown
		if err := rows.Scan(&b.DoctorID, &b.DoctorName, &b.Total, &b.Completed, &b.Cancelled); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, nil
}
