package settings

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the user's stored settings, or the defaults when nothing has
// been saved yet.
func (s *Service) Get(ctx context.Context, userID int64) (*Settings, error) {
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Defaults(userID), nil
	}
	return stored, nil
}

// Update validates and upserts the provided fields, returning the resulting
// settings.
func (s *Service) Update(ctx context.Context, userID int64, p *Patch) (*Settings, error) {
	if p.Language != nil && *p.Language != "ar" && *p.Language != "en" {
		return nil, fmt.Errorf("unsupported language %q", *p.Language)
	}
	if p.Theme != nil && *p.Theme != "light" && *p.Theme != "dark" {
		return nil, fmt.Errorf("unsupported theme %q", *p.Theme)
	}
	if p.ReminderMinutes != nil && (*p.ReminderMinutes < 0 || *p.ReminderMinutes > 24*60) {
		return nil, errors.New("reminderMinutes must be between 0 and 1440")
	}
	if p.Timezone != nil {
		if _, err := time.LoadLocation(*p.Timezone); err != nil {
			return nil, fmt.Errorf("unknown timezone %q", *p.Timezone)
		}
	}
	if p.TimeFormat != nil && *p.TimeFormat != "12h" && *p.TimeFormat != "24h" {
		return nil, fmt.Errorf("unsupported time format %q", *p.TimeFormat)
	}
	if err := s.repo.Upsert(ctx, userID, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
