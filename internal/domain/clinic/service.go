package clinic

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrNotFound      = errors.New("clinic not found")
	ErrDuplicateName = errors.New("a clinic with this name already exists")
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// generateCode builds a random 6-character join code.
func generateCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = codeCharset[rand.IntN(len(codeCharset))]
	}
	return string(b)
}

func (s *Service) Create(ctx context.Context, c *Clinic) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	exists, err := s.repo.ExistsByName(ctx, c.Name)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateName
	}

	// Retry a few times in case the random code collides.
	for attempt := 0; attempt < 5; attempt++ {
		c.Code = generateCode()
		if _, err := s.repo.GetByCode(ctx, c.Code); err != nil {
			break
		}
	}

	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id int64) (*Clinic, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Clinic, error) {
	c, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Clinic, int, error) {
	return s.repo.List(ctx, search, limit, offset)
}

func (s *Service) Update(ctx context.Context, id int64, p *Patch) (*Clinic, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		p.Name = &trimmed
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
	return s.repo.Deactivate(ctx, id)
}
