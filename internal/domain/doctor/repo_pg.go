package doctor

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

// =========== Doctor Repository ===========

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const cols = `d.id, d.code, d.user_id, COALESCE(u.name, d.name), d.specialization,
	d.phone, d.email, d.clinic_id, d.is_active, d.created_at, d.updated_at`

const fromClause = ` FROM doctors d LEFT JOIN users u ON u.id = d.user_id`

func (r *repoPG) scan(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Code, &d.UserID, &d.Name, &d.Specialization,
		&d.Phone, &d.Email, &d.ClinicID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

// Create inserts the row, then derives the public code from the generated id.
func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (user_id, name, specialization, phone, email, clinic_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, is_active, created_at, updated_at`,
		d.UserID, d.Name, d.Specialization, d.Phone, d.Email, d.ClinicID).
		Scan(&d.ID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return err
	}

	d.Code = fmt.Sprintf("DR-%04d", d.ID)
	_, err = r.conn(ctx).Exec(ctx, `UPDATE doctors SET code = $2 WHERE id = $1`, d.ID, d.Code)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+fromClause+` WHERE d.id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Doctor, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+fromClause+` WHERE d.code = $1`, code))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + cols + fromClause + ` WHERE d.is_active = TRUE`
	countQuery := `SELECT COUNT(*)` + fromClause + ` WHERE d.is_active = TRUE`
	var args []interface{}
	idx := 1

	if f.ClinicID > 0 {
		query += fmt.Sprintf(` AND d.clinic_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND d.clinic_id = $%d`, idx)
		args = append(args, f.ClinicID)
		idx++
	}
	if f.Specialization != "" {
		query += fmt.Sprintf(` AND d.specialization ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND d.specialization ILIKE $%d`, idx)
		args = append(args, f.Specialization)
		idx++
	}
	if f.Search != "" {
		cond := fmt.Sprintf(` AND (COALESCE(u.name, d.name) ILIKE $%d OR d.code ILIKE $%d)`, idx, idx)
		query += cond
		countQuery += cond
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id int64, p *Patch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET
			name = COALESCE($2, name),
			specialization = COALESCE($3, specialization),
			phone = COALESCE($4, phone),
			email = COALESCE($5, email),
			clinic_id = COALESCE($6, clinic_id),
			is_active = COALESCE($7, is_active),
			updated_at = NOW()
		WHERE id = $1`,
		id, p.Name, p.Specialization, p.Phone, p.Email, p.ClinicID, p.IsActive)
	return err
}

func (r *repoPG) Deactivate(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// =========== Schedule Repository ===========

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository { return &scheduleRepoPG{pool: pool} }

func (r *scheduleRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const schedCols = `id, doctor_id, day_of_week,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	to_char(break_start, 'HH24:MI'), to_char(break_end, 'HH24:MI'), is_available`

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(&s.ID, &s.DoctorID, &s.DayOfWeek, &s.StartTime, &s.EndTime,
		&s.BreakStart, &s.BreakEnd, &s.IsAvailable)
	return &s, err
}

func (r *scheduleRepoPG) ListByDoctor(ctx context.Context, doctorID int64) ([]*Schedule, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+schedCols+` FROM doctor_schedules WHERE doctor_id = $1 ORDER BY day_of_week`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, nil
}

func (r *scheduleRepoPG) GetForDay(ctx context.Context, doctorID int64, dayOfWeek int) (*Schedule, error) {
	return scanSchedule(r.conn(ctx).QueryRow(ctx,
		`SELECT `+schedCols+` FROM doctor_schedules
		 WHERE doctor_id = $1 AND day_of_week = $2 AND is_available = TRUE`, doctorID, dayOfWeek))
}

// ReplaceAll swaps the whole weekly schedule. Callers run it inside a
// transaction so a failed insert cannot leave the doctor without hours.
func (r *scheduleRepoPG) ReplaceAll(ctx context.Context, doctorID int64, schedules []*Schedule) error {
	if _, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM doctor_schedules WHERE doctor_id = $1`, doctorID); err != nil {
		return err
	}
	for _, s := range schedules {
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO doctor_schedules (doctor_id, day_of_week, start_time, end_time, break_start, break_end, is_available)
			VALUES ($1,$2,$3::time,$4::time,$5::time,$6::time,$7)
			RETURNING id`,
			doctorID, s.DayOfWeek, s.StartTime, s.EndTime, s.BreakStart, s.BreakEnd, s.IsAvailable).
			Scan(&s.ID)
		if err != nil {
			return err
		}
		s.DoctorID = doctorID
	}
	return nil
}
