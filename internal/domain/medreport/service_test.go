package medreport

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type mockRepo struct {
	reports map[int64]*Report
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{reports: make(map[int64]*Report), nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, r *Report) error {
	r.ID = m.nextID
	m.nextID++
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return r, nil
}

func (m *mockRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*Report, int, error) {
	var items []*Report
	for _, r := range m.reports {
		if f.PatientID > 0 && r.PatientID != f.PatientID {
			continue
		}
		items = append(items, r)
	}
	return items, len(items), nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, p *Patch) error {
	r := m.reports[id]
	if p.Diagnosis != nil {
		r.Diagnosis = *p.Diagnosis
	}
	if p.Findings != nil {
		r.Findings = p.Findings
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	delete(m.reports, id)
	return nil
}

func TestCreateAssignsNumberAndDate(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.now = func() time.Time { return time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC) }

	r := &Report{PatientID: 1, DoctorID: 1, Diagnosis: "Glaucoma suspect"}
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(r.Number, "MRPT-") || len(r.Number) != 13 {
		t.Errorf("number = %q, want MRPT- plus 8 chars", r.Number)
	}
	if r.ReportDate != "2025-03-03" {
		t.Errorf("reportDate = %q, want today when omitted", r.ReportDate)
	}
}

func TestCreateRequiresDiagnosis(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Report{PatientID: 1, DoctorID: 1, Diagnosis: "  "}); err == nil {
		t.Error("expected error for blank diagnosis")
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc := NewService(newMockRepo())
	r := &Report{PatientID: 1, DoctorID: 1, Diagnosis: "Cataract", ReportDate: "03/03/2025"}
	if err := svc.Create(context.Background(), r); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	findings := "IOP elevated"
	r := &Report{PatientID: 1, DoctorID: 1, Diagnosis: "Glaucoma suspect", Findings: &findings, ReportDate: "2025-03-03"}
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	diagnosis := "Primary open-angle glaucoma"
	if _, err := svc.Update(context.Background(), r.ID, &Patch{Diagnosis: &diagnosis}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := repo.reports[r.ID]
	if got.Diagnosis != diagnosis {
		t.Errorf("diagnosis = %q, want %q", got.Diagnosis, diagnosis)
	}
	if got.Findings == nil || *got.Findings != findings {
		t.Errorf("findings changed, want untouched")
	}
}
