package colortest

import (
	"context"

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

// =========== Plate catalog ===========

type plateRepoPG struct{ pool *pgxpool.Pool }

func NewPlateRepoPG(pool *pgxpool.Pool) PlateRepository { return &plateRepoPG{pool: pool} }

func (r *plateRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const plateCols = `id, test_number, test_name, image, correct_answer, description, created_at, updated_at`

func scanPlate(row pgx.Row) (*Plate, error) {
	var p Plate
	err := row.Scan(&p.ID, &p.TestNumber, &p.TestName, &p.Image,
		&p.CorrectAnswer, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *plateRepoPG) Create(ctx context.Context, p *Plate) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO color_test_plates (test_number, test_name, image, correct_answer, description)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		p.TestNumber, p.TestName, p.Image, p.CorrectAnswer, p.Description).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *plateRepoPG) GetByID(ctx context.Context, id int64) (*Plate, error) {
	return scanPlate(r.conn(ctx).QueryRow(ctx,
		`SELECT `+plateCols+` FROM color_test_plates WHERE id = $1`, id))
}

func (r *plateRepoPG) List(ctx context.Context) ([]*Plate, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+plateCols+` FROM color_test_plates ORDER BY test_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Plate
	for rows.Next() {
		p, err := scanPlate(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *plateRepoPG) Update(ctx context.Context, id int64, p *PlatePatch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE color_test_plates SET
			test_number = COALESCE($2, test_number),
			test_name = COALESCE($3, test_name),
			image = COALESCE($4, image),
			correct_answer = COALESCE($5, correct_answer),
			description = COALESCE($6, description),
			updated_at = NOW()
		WHERE id = $1`,
		id, p.TestNumber, p.TestName, p.Image, p.CorrectAnswer, p.Description)
	return err
}

func (r *plateRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM color_test_plates WHERE id = $1`, id)
	return err
}

// =========== Sessions ===========

type sessionRepoPG struct{ pool *pgxpool.Pool }

func NewSessionRepoPG(pool *pgxpool.Pool) SessionRepository { return &sessionRepoPG{pool: pool} }

func (r *sessionRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *sessionRepoPG) Create(ctx context.Context, s *Session) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO color_test_sessions (patient_id, total, correct, score, result)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`,
		s.PatientID, s.Total, s.Correct, s.Score, s.Result).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return err
	}
	for i := range s.Answers {
		a := &s.Answers[i]
		a.SessionID = s.ID
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO color_test_answers (session_id, test_id, answer, is_correct)
			VALUES ($1,$2,$3,$4)
			RETURNING id`,
			a.SessionID, a.TestID, a.Answer, a.IsCorrect).Scan(&a.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *sessionRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Session, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, total, correct, score, result, created_at
		FROM color_test_sessions
		WHERE patient_id = $1
		ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.PatientID, &s.Total, &s.Correct, &s.Score, &s.Result, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, nil
}
