package colortest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/medcore/eyeclinic-api/internal/platform/db"
)

var (
	ErrNotFound     = errors.New("color test not found")
	ErrEmptySubmit  = errors.New("at least one answer is required")
	ErrUnknownPlate = errors.New("answer references an unknown test")
)

type Service struct {
	plates   PlateRepository
	sessions SessionRepository
	tx       db.TxRunner
}

func NewService(plates PlateRepository, sessions SessionRepository, tx db.TxRunner) *Service {
	return &Service{plates: plates, sessions: sessions, tx: tx}
}

// Verdict maps a percentage score onto the screening outcome.
func Verdict(score float64) string {
	switch {
	case score < 70:
		return VerdictDetected
	case score < 90:
		return VerdictDeficiency
	}
	return VerdictNormal
}

func (s *Service) CreatePlate(ctx context.Context, p *Plate) error {
	if strings.TrimSpace(p.TestName) == "" {
		return errors.New("testName is required")
	}
	if strings.TrimSpace(p.CorrectAnswer) == "" {
		return errors.New("correctAnswer is required")
	}
	if p.TestNumber <= 0 {
		return errors.New("testNumber must be positive")
	}
	return s.plates.Create(ctx, p)
}

func (s *Service) GetPlate(ctx context.Context, id int64) (*Plate, error) {
	p, err := s.plates.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListPlates(ctx context.Context) ([]*Plate, error) {
	return s.plates.List(ctx)
}

func (s *Service) UpdatePlate(ctx context.Context, id int64, p *PlatePatch) (*Plate, error) {
	if _, err := s.plates.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if err := s.plates.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.plates.GetByID(ctx, id)
}

func (s *Service) DeletePlate(ctx context.Context, id int64) error {
	if _, err := s.plates.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.plates.Delete(ctx, id)
}

// Submit grades a patient's answers against the catalog and persists the
// session with its per-answer rows in one transaction. Answers are compared
// case-insensitively after trimming.
func (s *Service) Submit(ctx context.Context, patientID int64, answers []SubmittedAnswer) (*Session, error) {
	if len(answers) == 0 {
		return nil, ErrEmptySubmit
	}
	plates, err := s.plates.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*Plate, len(plates))
	for _, p := range plates {
		byID[p.ID] = p
	}

	session := &Session{PatientID: patientID, Total: len(answers)}
	for _, a := range answers {
		p, ok := byID[a.TestID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownPlate, a.TestID)
		}
		correct := strings.EqualFold(strings.TrimSpace(a.Answer), strings.TrimSpace(p.CorrectAnswer))
		if correct {
			session.Correct++
		}
		session.Answers = append(session.Answers, Answer{
			TestID:    a.TestID,
			Answer:    a.Answer,
			IsCorrect: correct,
		})
	}

	score := float64(session.Correct) / float64(session.Total) * 100
	session.Score = math.Round(score*100) / 100
	session.Result = Verdict(session.Score)

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.sessions.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Results returns the patient's session history plus a summary.
func (s *Service) Results(ctx context.Context, patientID int64) ([]*Session, *Summary, error) {
	history, err := s.sessions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}
	sum := &Summary{TotalSessions: len(history)}
	if len(history) > 0 {
		latest := history[0]
		sum.LatestScore = &latest.Score
		sum.LatestResult = &latest.Result
		best := history[0].Score
		for _, h := range history[1:] {
			if h.Score > best {
				best = h.Score
			}
		}
		sum.BestScore = &best
	}
	return history, sum, nil
}
