package doctor

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type mockRepo struct {
	doctors map[int64]*Doctor
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[int64]*Doctor), nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, d *Doctor) error {
	d.ID = m.nextID
	m.nextID++
	d.Code = fmt.Sprintf("DR-%04d", d.ID)
	d.IsActive = true
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok || !d.IsActive {
		return nil, errors.New("no rows")
	}
	return d, nil
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.Code == code && d.IsActive {
			return d, nil
		}
	}
	return nil, errors.New("no rows")
}

func (m *mockRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, int, error) {
	var items []*Doctor
	for _, d := range m.doctors {
		if !d.IsActive {
			continue
		}
		if f.ClinicID > 0 && (d.ClinicID == nil || *d.ClinicID != f.ClinicID) {
			continue
		}
		items = append(items, d)
	}
	return items, len(items), nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, p *Patch) error {
	d := m.doctors[id]
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Specialization != nil {
		d.Specialization = p.Specialization
	}
	return nil
}

func (m *mockRepo) Deactivate(ctx context.Context, id int64) error {
	m.doctors[id].IsActive = false
	return nil
}

type mockScheduleRepo struct {
	byDoctor map[int64][]*Schedule
	failOn   int // fail inserting the Nth schedule, 0 disables
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{byDoctor: make(map[int64][]*Schedule)}
}

func (m *mockScheduleRepo) ListByDoctor(ctx context.Context, doctorID int64) ([]*Schedule, error) {
	return m.byDoctor[doctorID], nil
}

func (m *mockScheduleRepo) GetForDay(ctx context.Context, doctorID int64, dayOfWeek int) (*Schedule, error) {
	for _, s := range m.byDoctor[doctorID] {
		if s.DayOfWeek == dayOfWeek && s.IsAvailable {
			return s, nil
		}
	}
	return nil, errors.New("no rows")
}

func (m *mockScheduleRepo) ReplaceAll(ctx context.Context, doctorID int64, schedules []*Schedule) error {
	for i := range schedules {
		if m.failOn > 0 && i+1 == m.failOn {
			return errors.New("insert failed")
		}
	}
	m.byDoctor[doctorID] = schedules
	return nil
}

type directTxRunner struct{}

func (directTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo, *mockScheduleRepo) {
	repo := newMockRepo()
	sched := newMockScheduleRepo()
	return NewService(repo, sched, directTxRunner{}), repo, sched
}

func strPtr(s string) *string { return &s }

func TestCreateAssignsCode(t *testing.T) {
	svc, _, _ := newTestService()
	d := &Doctor{Name: "Dr. Salem"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Code != "DR-0001" {
		t.Errorf("code = %q, want DR-0001", d.Code)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.Create(context.Background(), &Doctor{Name: "   "}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestSetSchedulesValidation(t *testing.T) {
	svc, _, _ := newTestService()
	d := &Doctor{Name: "Dr. Salem"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cases := []struct {
		name     string
		schedule *Schedule
	}{
		{"day out of range", &Schedule{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00", IsAvailable: true}},
		{"bad start time", &Schedule{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00", IsAvailable: true}},
		{"start after end", &Schedule{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00", IsAvailable: true}},
		{"break half set", &Schedule{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", BreakStart: strPtr("12:00"), IsAvailable: true}},
		{"break outside hours", &Schedule{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", BreakStart: strPtr("08:00"), BreakEnd: strPtr("12:00"), IsAvailable: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.SetSchedules(context.Background(), d.ID, []*Schedule{tc.schedule})
			if !errors.Is(err, ErrInvalidSchedule) {
				t.Errorf("err = %v, want ErrInvalidSchedule", err)
			}
		})
	}
}

func TestSetSchedulesRejectsDuplicateDay(t *testing.T) {
	svc, _, _ := newTestService()
	d := &Doctor{Name: "Dr. Salem"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := svc.SetSchedules(context.Background(), d.ID, []*Schedule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "18:00", IsAvailable: true},
	})
	if !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("err = %v, want ErrInvalidSchedule", err)
	}
}

func TestSetSchedulesReplacesExisting(t *testing.T) {
	svc, _, sched := newTestService()
	d := &Doctor{Name: "Dr. Salem"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first := []*Schedule{
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}
	if err := svc.SetSchedules(context.Background(), d.ID, first); err != nil {
		t.Fatalf("SetSchedules: %v", err)
	}

	second := []*Schedule{
		{DayOfWeek: 3, StartTime: "10:00", EndTime: "14:00", BreakStart: strPtr("12:00"), BreakEnd: strPtr("12:30"), IsAvailable: true},
	}
	if err := svc.SetSchedules(context.Background(), d.ID, second); err != nil {
		t.Fatalf("SetSchedules replace: %v", err)
	}

	got, _ := sched.ListByDoctor(context.Background(), d.ID)
	if len(got) != 1 || got[0].DayOfWeek != 3 {
		t.Errorf("schedules after replace = %+v, want single day-3 row", got)
	}
}

func TestSetSchedulesUnknownDoctor(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.SetSchedules(context.Background(), 99, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
