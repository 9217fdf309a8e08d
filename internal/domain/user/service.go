package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/medcore/eyeclinic-api/internal/platform/auth"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrNotPending    = errors.New("user is not pending approval")
	ErrWrongPassword = errors.New("current password is incorrect")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Approve moves a pending account to active.
func (s *Service) Approve(ctx context.Context, id int64) (*User, error) {
	return s.resolvePending(ctx, id, StatusActive)
}

// Reject marks a pending account as rejected.
func (s *Service) Reject(ctx context.Context, id int64) (*User, error) {
	return s.resolvePending(ctx, id, StatusRejected)
}

func (s *Service) resolvePending(ctx context.Context, id int64, status string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if u.Status != StatusPending {
		return nil, ErrNotPending
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	u.Status = status
	return u, nil
}

// Deactivate disables an active account.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, id, StatusInactive)
}

func (s *Service) Update(ctx context.Context, id int64, p *Patch) (*User, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if p.Name != nil && *p.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// ChangePassword verifies the current password before setting a new one.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if len(next) < 6 {
		return fmt.Errorf("new password must be at least 6 characters")
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return ErrWrongPassword
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}
