package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("prescription not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// newNumber builds a human-readable prescription number from a uuid fragment.
func newNumber() string {
	return fmt.Sprintf("RX-%s", strings.ToUpper(uuid.NewString()[:8]))
}

func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.PatientID <= 0 || p.DoctorID <= 0 {
		return errors.New("patientId and doctorId are required")
	}
	if len(p.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for i, item := range p.Items {
		if strings.TrimSpace(item.Medicine) == "" {
			return fmt.Errorf("item %d: medicine is required", i+1)
		}
	}
	p.Number = newNumber()
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Update(ctx context.Context, id int64, p *Patch) (*Prescription, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if p.Items != nil && len(*p.Items) == 0 {
		return nil, errors.New("items cannot be emptied")
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
