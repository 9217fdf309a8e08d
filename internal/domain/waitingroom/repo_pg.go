package waitingroom

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

const cols = `w.id, w.clinic_id, w.patient_id, w.appointment_id,
	to_char(w.date, 'YYYY-MM-DD'), w.position, w.status,
	COALESCE(p.name, ''), w.created_at, w.updated_at`

const fromClause = ` FROM waiting_room w LEFT JOIN patients p ON p.id = w.patient_id`

func scan(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ClinicID, &e.PatientID, &e.AppointmentID,
		&e.Date, &e.Position, &e.Status, &e.PatientName, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

// Add computes the next position inside the insert statement. The service
// wraps the call in a transaction so concurrent adds serialize.
func (r *repoPG) Add(ctx context.Context, e *Entry) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO waiting_room (clinic_id, patient_id, appointment_id, date, position, status)
		SELECT $1, $2, $3, $4::date,
			COALESCE(MAX(position), 0) + 1, $5
		FROM waiting_room
		WHERE date = $4::date AND clinic_id IS NOT DISTINCT FROM $1
		RETURNING id, position, created_at, updated_at`,
		e.ClinicID, e.PatientID, e.AppointmentID, e.Date, e.Status).
		Scan(&e.ID, &e.Position, &e.CreatedAt, &e.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Entry, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+fromClause+` WHERE w.id = $1`, id))
}

func (r *repoPG) ListByDate(ctx context.Context, clinicID int64, date string) ([]*Entry, error) {
	query := `SELECT ` + cols + fromClause + ` WHERE w.date = $1::date`
	args := []interface{}{date}
	if clinicID > 0 {
		query += fmt.Sprintf(` AND w.clinic_id = $%d`, len(args)+1)
		args = append(args, clinicID)
	}
	query += ` ORDER BY w.position`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE waiting_room SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) Remove(ctx context.Context, id int64) error {
	var clinicID *int64
	var date string
	var position int
	err := r.conn(ctx).QueryRow(ctx, `
		DELETE FROM waiting_room WHERE id = $1
		RETURNING clinic_id, to_char(date, 'YYYY-MM-DD'), position`, id).
		Scan(&clinicID, &date, &position)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE waiting_room SET position = position - 1, updated_at = NOW()
		WHERE date = $1::date AND clinic_id IS NOT DISTINCT FROM $2 AND position > $3`,
		date, clinicID, position)
	return err
}

func (r *repoPG) FirstWaiting(ctx context.Context, clinicID int64, date string) (*Entry, error) {
	query := `SELECT ` + cols + fromClause + ` WHERE w.date = $1::date AND w.status = $2`
	args := []interface{}{date, StatusWaiting}
	if clinicID > 0 {
		query += fmt.Sprintf(` AND w.clinic_id = $%d`, len(args)+1)
		args = append(args, clinicID)
	}
	query += ` ORDER BY w.position LIMIT 1`
	return scan(r.conn(ctx).QueryRow(ctx, query, args...))
}
