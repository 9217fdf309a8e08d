package prescription

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockRepo struct {
	prescriptions map[int64]*Prescription
	nextID        int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{prescriptions: make(map[int64]*Prescription), nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, p *Prescription) error {
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.prescriptions[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Prescription, error) {
	p, ok := m.prescriptions[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return p, nil
}

func (m *mockRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*Prescription, int, error) {
	var items []*Prescription
	for _, p := range m.prescriptions {
		if f.PatientID > 0 && p.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID > 0 && p.DoctorID != f.DoctorID {
			continue
		}
		items = append(items, p)
	}
	return items, len(items), nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, p *Patch) error {
	rx := m.prescriptions[id]
	if p.Items != nil {
		rx.Items = *p.Items
	}
	if p.Notes != nil {
		rx.Notes = p.Notes
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	delete(m.prescriptions, id)
	return nil
}

func validItems() []Item {
	return []Item{{Medicine: "Latanoprost", Dosage: "1 drop", Frequency: "nightly", Duration: "30 days"}}
}

func TestCreateAssignsNumber(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Prescription{PatientID: 1, DoctorID: 1, Items: validItems()}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(p.Number, "RX-") || len(p.Number) != 11 {
		t.Errorf("number = %q, want RX- plus 8 chars", p.Number)
	}
	if p.Number != strings.ToUpper(p.Number) {
		t.Errorf("number %q should be upper case", p.Number)
	}
}

func TestCreateNumbersAreUnique(t *testing.T) {
	svc := NewService(newMockRepo())
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p := &Prescription{PatientID: 1, DoctorID: 1, Items: validItems()}
		if err := svc.Create(context.Background(), p); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[p.Number] {
			t.Fatalf("duplicate number %q", p.Number)
		}
		seen[p.Number] = true
	}
}

func TestCreateRequiresItems(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Prescription{PatientID: 1, DoctorID: 1}); err == nil {
		t.Error("expected error for empty items")
	}
	bad := []Item{{Medicine: "  "}}
	if err := svc.Create(context.Background(), &Prescription{PatientID: 1, DoctorID: 1, Items: bad}); err == nil {
		t.Error("expected error for blank medicine")
	}
}

func TestUpdateCannotEmptyItems(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Prescription{PatientID: 1, DoctorID: 1, Items: validItems()}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	empty := []Item{}
	if _, err := svc.Update(context.Background(), p.ID, &Patch{Items: &empty}); err == nil {
		t.Error("expected error when emptying items")
	}
}

func TestDeleteUnknownIsNotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Delete(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
