package testresult

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepo struct {
	results map[int64]*Result
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{results: make(map[int64]*Result), nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, r *Result) error {
	r.ID = m.nextID
	m.nextID++
	cp := *r
	m.results[r.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Result, error) {
	r, ok := m.results[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return r, nil
}

func (m *mockRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*Result, int, error) {
	var items []*Result
	for _, r := range m.results {
		if f.PatientID > 0 && r.PatientID != f.PatientID {
			continue
		}
		if f.TestType != "" && r.TestType != f.TestType {
			continue
		}
		items = append(items, r)
	}
	return items, len(items), nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, p *Patch) error {
	r := m.results[id]
	if p.TestType != nil {
		r.TestType = *p.TestType
	}
	if p.Findings != nil {
		r.Findings = p.Findings
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	delete(m.results, id)
	return nil
}

func TestCreateDefaultsDateToToday(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.now = func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) }

	r := &Result{PatientID: 1, TestType: "visual-acuity"}
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.TestDate != "2025-03-03" {
		t.Errorf("testDate = %q, want 2025-03-03", r.TestDate)
	}
}

func TestCreateRequiresTypeAndPatient(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Result{TestType: "oct"}); err == nil {
		t.Error("expected error for missing patient")
	}
	if err := svc.Create(context.Background(), &Result{PatientID: 1, TestType: " "}); err == nil {
		t.Error("expected error for blank test type")
	}
}

func TestListFiltersByType(t *testing.T) {
	svc := NewService(newMockRepo())
	for _, tt := range []string{"oct", "visual-acuity", "oct"} {
		if err := svc.Create(context.Background(), &Result{PatientID: 1, TestType: tt, TestDate: "2025-03-01"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	items, total, err := svc.List(context.Background(), Filter{TestType: "oct"}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}
