package colortest

import "context"

type PlateRepository interface {
	Create(ctx context.Context, p *Plate) error
	GetByID(ctx context.Context, id int64) (*Plate, error)
	// List returns the whole catalog ordered by test_number.
	List(ctx context.Context) ([]*Plate, error)
	Update(ctx context.Context, id int64, p *PlatePatch) error
	Delete(ctx context.Context, id int64) error
}

type SessionRepository interface {
	// Create persists the session and its graded answers.
	Create(ctx context.Context, s *Session) error
	ListByPatient(ctx context.Context, patientID int64) ([]*Session, error)
}
