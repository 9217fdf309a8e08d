package testresult

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("test result not found")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, r *Result) error {
	if r.PatientID <= 0 {
		return errors.New("patientId is required")
	}
	if strings.TrimSpace(r.TestType) == "" {
		return errors.New("testType is required")
	}
	if r.TestDate == "" {
		r.TestDate = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", r.TestDate); err != nil {
		return fmt.Errorf("invalid test date %q", r.TestDate)
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id int64) (*Result, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Result, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Update(ctx context.Context, id int64, p *Patch) (*Result, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if p.TestDate != nil {
		if _, err := time.Parse("2006-01-02", *p.TestDate); err != nil {
			return nil, fmt.Errorf("invalid test date %q", *p.TestDate)
		}
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
