package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcore/eyeclinic-api/internal/platform/db"
)

// ErrSlotTaken signals a booking conflict detected by the database.
var ErrSlotTaken = errors.New("appointment slot is already booked")

// slotConstraint is the unique partial index guarding against double booking.
const slotConstraint = "appointments_doctor_slot_key"

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

const cols = `a.id, a.patient_id, a.doctor_id, a.clinic_id,
	to_char(a.date, 'YYYY-MM-DD'), to_char(a.time, 'HH24:MI'),
	a.type, a.status, a.phone, a.notes,
	COALESCE(p.name, ''), COALESCE(COALESCE(u.name, d.name), ''),
	a.created_at, a.updated_at`

const fromClause = ` FROM appointments a
	LEFT JOIN patients p ON p.id = a.patient_id
	LEFT JOIN doctors d ON d.id = a.doctor_id
	LEFT JOIN users u ON u.id = d.user_id`

func scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ClinicID,
		&a.Date, &a.Time, &a.Type, &a.Status, &a.Phone, &a.Notes,
		&a.PatientName, &a.DoctorName, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (patient_id, doctor_id, clinic_id, date, time, type, status, phone, notes)
		VALUES ($1,$2,$3,$4::date,$5::time,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.DoctorID, a.ClinicID, a.Date, a.Time, a.Type, a.Status, a.Phone, a.Notes).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if db.IsUniqueViolation(err, slotConstraint) {
		return ErrSlotTaken
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+fromClause+` WHERE a.id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
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
		add(` AND a.clinic_id = $%d`, f.ClinicID)
	}
	if f.DoctorID > 0 {
		add(` AND a.doctor_id = $%d`, f.DoctorID)
	}
	if f.PatientID > 0 {
		add(` AND a.patient_id = $%d`, f.PatientID)
	}
	if f.Date != "" {
		add(` AND a.date = $%d::date`, f.Date)
	}
	if f.Status != "" {
		add(` AND a.status = $%d`, f.Status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY a.date DESC, a.time DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *repoPG) BookedTimes(ctx context.Context, doctorID int64, date string) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT to_char(time, 'HH24:MI') FROM appointments
		WHERE doctor_id = $1 AND date = $2::date AND status <> $3
		ORDER BY time`, doctorID, date, StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, nil
}

func (r *repoPG) Update(ctx context.Context, id int64, p *Patch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET
			date = COALESCE($2::date, date),
			time = COALESCE($3::time, time),
			type = COALESCE($4, type),
			status = COALESCE($5, status),
			notes = COALESCE($6, notes),
			updated_at = NOW()
		WHERE id = $1`,
		id, p.Date, p.Time, p.Type, p.Status, p.Notes)
	if db.IsUniqueViolation(err, slotConstraint) {
		return ErrSlotTaken
	}
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}
