package waitingroom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medcore/eyeclinic-api/internal/platform/db"
)

var (
	ErrNotFound  = errors.New("waiting room entry not found")
	ErrNoWaiting = errors.New("no patients waiting")
)

type Service struct {
	repo Repository
	tx   db.TxRunner
	now  func() time.Time
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx, now: time.Now}
}

func (s *Service) Add(ctx context.Context, e *Entry) error {
	if e.PatientID <= 0 {
		return errors.New("patientId is required")
	}
	if e.Date == "" {
		e.Date = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return fmt.Errorf("invalid date %q", e.Date)
	}
	if e.Status == "" {
		e.Status = StatusWaiting
	}
	if !ValidStatus(e.Status) {
		return fmt.Errorf("invalid status %q", e.Status)
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.repo.Add(ctx, e)
	})
}

// Queue lists the clinic's queue for a date, defaulting to today.
func (s *Service) Queue(ctx context.Context, clinicID int64, date string) ([]*Entry, error) {
	if date == "" {
		date = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q", date)
	}
	return s.repo.ListByDate(ctx, clinicID, date)
}

func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*Entry, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	e.Status = status
	return e, nil
}

// Remove drops the entry and re-compacts the positions behind it.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.repo.Remove(ctx, id)
	})
}

// CallNext promotes the lowest-position waiting patient to called.
func (s *Service) CallNext(ctx context.Context, clinicID int64) (*Entry, error) {
	date := s.now().Format("2006-01-02")
	var called *Entry
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		e, err := s.repo.FirstWaiting(ctx, clinicID, date)
		if err != nil {
			return ErrNoWaiting
		}
		if err := s.repo.UpdateStatus(ctx, e.ID, StatusCalled); err != nil {
			return err
		}
		e.Status = StatusCalled
		called = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return called, nil
}
