package settings

import (
	"context"
	"errors"
	"testing"
)

type mockRepo struct {
	rows map[int64]*Settings
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[int64]*Settings)}
}

func (m *mockRepo) Get(ctx context.Context, userID int64) (*Settings, error) {
	s, ok := m.rows[userID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return s, nil
}

func (m *mockRepo) Upsert(ctx context.Context, userID int64, p *Patch) error {
	s, ok := m.rows[userID]
	if !ok {
		s = Defaults(userID)
		m.rows[userID] = s
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.ReminderMinutes != nil {
		s.ReminderMinutes = *p.ReminderMinutes
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.TimeFormat != nil {
		s.TimeFormat = *p.TimeFormat
	}
	return nil
}

func TestGetUnsavedReturnsDefaults(t *testing.T) {
	svc := NewService(newMockRepo())
	s, err := svc.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Language != "ar" || s.Theme != "light" || s.ReminderMinutes != 30 ||
		s.Timezone != "Asia/Riyadh" || s.DateFormat != "DD/MM/YYYY" || s.TimeFormat != "24h" {
		t.Errorf("defaults = %+v", s)
	}
	if !s.NotificationsEnabled {
		t.Error("notifications should default to enabled")
	}
}

func TestUpdateOnlyProvidedFields(t *testing.T) {
	svc := NewService(newMockRepo())
	theme := "dark"
	s, err := svc.Update(context.Background(), 5, &Patch{Theme: &theme})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.Theme != "dark" {
		t.Errorf("theme = %q, want dark", s.Theme)
	}
	if s.Language != "ar" {
		t.Errorf("language = %q, untouched fields should keep defaults", s.Language)
	}
}

func TestUpdatePersistsAcrossReads(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	mins := 60
	if _, err := svc.Update(context.Background(), 5, &Patch{ReminderMinutes: &mins}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	s, err := svc.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.ReminderMinutes != 60 {
		t.Errorf("reminderMinutes = %d, want 60", s.ReminderMinutes)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	bad := func(p *Patch) {
		t.Helper()
		if _, err := svc.Update(context.Background(), 5, p); err == nil {
			t.Errorf("expected validation error for %+v", p)
		}
	}
	lang := "fr"
	bad(&Patch{Language: &lang})
	theme := "solarized"
	bad(&Patch{Theme: &theme})
	mins := -1
	bad(&Patch{ReminderMinutes: &mins})
	tz := "Mars/Olympus"
	bad(&Patch{Timezone: &tz})
	tf := "25h"
	bad(&Patch{TimeFormat: &tf})
}
