package medreport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("medical report not found")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func newNumber() string {
	return fmt.Sprintf("MRPT-%s", strings.ToUpper(uuid.NewString()[:8]))
}

func (s *Service) Create(ctx context.Context, r *Report) error {
	if r.PatientID <= 0 || r.DoctorID <= 0 {
		return errors.New("patientId and doctorId are required")
	}
	if strings.TrimSpace(r.Diagnosis) == "" {
		return errors.New("diagnosis is required")
	}
	if r.ReportDate == "" {
		r.ReportDate = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", r.ReportDate); err != nil {
		return fmt.Errorf("invalid report date %q", r.ReportDate)
	}
	r.Number = newNumber()
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id int64) (*Report, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Report, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Update(ctx context.Context, id int64, p *Patch) (*Report, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if p.ReportDate != nil {
		if _, err := time.Parse("2006-01-02", *p.ReportDate); err != nil {
			return nil, fmt.Errorf("invalid report date %q", *p.ReportDate)
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
