package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("patient not found")
	ErrDuplicateEmail = errors.New("a patient with this email already exists")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Email != nil && *p.Email != "" {
		if _, err := s.repo.GetByEmail(ctx, *p.Email); err == nil {
			return ErrDuplicateEmail
		}
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	p, err := s.repo.GetByMRN(ctx, strings.ToUpper(strings.TrimSpace(mrn)))
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Update(ctx context.Context, id int64, p *Patch) (*Patient, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, fmt.Errorf("name cannot be empty")
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
	return s.repo.SoftDelete(ctx, id)
}
