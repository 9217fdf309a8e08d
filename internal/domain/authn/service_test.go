package authn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/medcore/eyeclinic-api/internal/domain/clinic"
	"github.com/medcore/eyeclinic-api/internal/domain/patient"
	"github.com/medcore/eyeclinic-api/internal/domain/user"
	"github.com/medcore/eyeclinic-api/internal/platform/auth"
)

type mockUserRepo struct {
	users  map[int64]*user.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*user.User), nextID: 1}
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, errors.New("no rows")
}

func (m *mockUserRepo) List(ctx context.Context, f user.Filter, limit, offset int) ([]*user.User, int, error) {
	return nil, 0, nil
}
func (m *mockUserRepo) Update(ctx context.Context, id int64, p *user.Patch) error { return nil }
func (m *mockUserRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	m.users[id].Status = status
	return nil
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error { return nil }

type mockPatientRepo struct {
	patients map[int64]*patient.Patient
	nextID   int64
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[int64]*patient.Patient), nextID: 1}
}

func (m *mockPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	p.ID = m.nextID
	m.nextID++
	p.MedicalRecordNumber = fmt.Sprintf("MR-%06d", p.ID)
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id int64) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return p, nil
}

func (m *mockPatientRepo) GetByMRN(ctx context.Context, mrn string) (*patient.Patient, error) {
	return nil, errors.New("no rows")
}

func (m *mockPatientRepo) GetByEmail(ctx context.Context, email string) (*patient.Patient, error) {
	for _, p := range m.patients {
		if p.Email != nil && strings.EqualFold(*p.Email, email) {
			return p, nil
		}
	}
	return nil, errors.New("no rows")
}

func (m *mockPatientRepo) List(ctx context.Context, f patient.Filter, limit, offset int) ([]*patient.Patient, int, error) {
	return nil, 0, nil
}
func (m *mockPatientRepo) Update(ctx context.Context, id int64, p *patient.Patch) error { return nil }
func (m *mockPatientRepo) SoftDelete(ctx context.Context, id int64) error               { return nil }

type mockClinicRepo struct {
	clinics map[int64]*clinic.Clinic
	nextID  int64
}

func newMockClinicRepo() *mockClinicRepo {
	return &mockClinicRepo{clinics: make(map[int64]*clinic.Clinic), nextID: 1}
}

func (m *mockClinicRepo) Create(ctx context.Context, c *clinic.Clinic) error {
	c.ID = m.nextID
	m.nextID++
	c.IsActive = true
	cp := *c
	m.clinics[c.ID] = &cp
	return nil
}

func (m *mockClinicRepo) GetByID(ctx context.Context, id int64) (*clinic.Clinic, error) {
	c, ok := m.clinics[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return c, nil
}

func (m *mockClinicRepo) GetByCode(ctx context.Context, code string) (*clinic.Clinic, error) {
	for _, c := range m.clinics {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, errors.New("no rows")
}

func (m *mockClinicRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, c := range m.clinics {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockClinicRepo) List(ctx context.Context, search string, limit, offset int) ([]*clinic.Clinic, int, error) {
	return nil, 0, nil
}
func (m *mockClinicRepo) Update(ctx context.Context, id int64, p *clinic.Patch) error { return nil }
func (m *mockClinicRepo) Deactivate(ctx context.Context, id int64) error              { return nil }

type directTxRunner struct{}

func (directTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockUserRepo, *mockPatientRepo) {
	users := newMockUserRepo()
	patients := newMockPatientRepo()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := NewService(users, patients, clinic.NewService(newMockClinicRepo()), issuer, directTxRunner{})
	return svc, users, patients
}

func registerStaff(t *testing.T, svc *Service, email, role string, byAdmin bool) *user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), &RegisterInput{
		Name: "Huda", Email: email, Password: "secret1", Role: role,
	}, byAdmin)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestAdminCreatedUserIsActive(t *testing.T) {
	svc, _, _ := newTestService()
	u := registerStaff(t, svc, "huda@clinic.sa", auth.RoleReceptionist, true)
	if u.Status != user.StatusActive {
		t.Errorf("status = %q, want active for admin-created", u.Status)
	}
}

func TestSelfRegisteredUserIsPending(t *testing.T) {
	svc, _, _ := newTestService()
	u := registerStaff(t, svc, "huda@clinic.sa", auth.RoleDoctor, false)
	if u.Status != user.StatusPending {
		t.Errorf("status = %q, want pending for self-registered", u.Status)
	}

	_, _, err := svc.Login(context.Background(), "huda@clinic.sa", "secret1")
	if !errors.Is(err, ErrPendingApproval) {
		t.Errorf("login err = %v, want ErrPendingApproval", err)
	}
}

func TestLoginActiveUser(t *testing.T) {
	svc, _, _ := newTestService()
	registerStaff(t, svc, "huda@clinic.sa", auth.RoleReceptionist, true)

	token, u, err := svc.Login(context.Background(), "Huda@Clinic.sa", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || u.Email != "huda@clinic.sa" {
		t.Errorf("token = %q, user = %+v", token, u)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	registerStaff(t, svc, "huda@clinic.sa", auth.RoleReceptionist, true)

	if _, _, err := svc.Login(context.Background(), "huda@clinic.sa", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("err = %v, want ErrBadCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@clinic.sa", "secret1"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("err = %v, want ErrBadCredentials for unknown email", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	registerStaff(t, svc, "huda@clinic.sa", auth.RoleReceptionist, true)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name: "Other", Email: "HUDA@clinic.sa", Password: "secret1", Role: auth.RoleDoctor,
	}, false)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegisterRejectsPatientRole(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Register(context.Background(), &RegisterInput{
		Name: "X", Email: "x@clinic.sa", Password: "secret1", Role: auth.RolePatient,
	}, true)
	if err == nil {
		t.Error("expected error: staff registration must not mint patient accounts")
	}
}

func TestRegisterClinicCreatesOwnerAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	token, u, cl, err := svc.RegisterClinic(context.Background(), &RegisterClinicInput{
		ClinicName:    "Alnoor Eye Center",
		OwnerName:     "Huda",
		OwnerEmail:    "Owner@Clinic.sa",
		OwnerPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("RegisterClinic: %v", err)
	}
	if token == "" {
		t.Error("token should be issued for the new owner")
	}
	if u.Role != auth.RoleAdmin || u.Status != user.StatusActive {
		t.Errorf("owner role/status = %s/%s, want admin/active", u.Role, u.Status)
	}
	if u.Email != "owner@clinic.sa" {
		t.Errorf("owner email = %q, want lowercased", u.Email)
	}
	if u.ClinicID == nil || *u.ClinicID != cl.ID {
		t.Errorf("owner clinicID = %v, want %d", u.ClinicID, cl.ID)
	}
	if len(cl.Code) != 6 {
		t.Errorf("clinic code = %q, want 6 characters", cl.Code)
	}

	// The owner can log in right away.
	if _, _, err := svc.Login(context.Background(), "owner@clinic.sa", "secret1"); err != nil {
		t.Errorf("owner login: %v", err)
	}
}

func TestRegisterClinicDuplicateOwnerEmail(t *testing.T) {
	svc, _, _ := newTestService()
	registerStaff(t, svc, "owner@clinic.sa", auth.RoleReceptionist, true)

	_, _, _, err := svc.RegisterClinic(context.Background(), &RegisterClinicInput{
		ClinicName:    "Alnoor Eye Center",
		OwnerName:     "Huda",
		OwnerEmail:    "owner@clinic.sa",
		OwnerPassword: "secret1",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegisterClinicDuplicateName(t *testing.T) {
	svc, _, _ := newTestService()
	in := &RegisterClinicInput{
		ClinicName:    "Alnoor Eye Center",
		OwnerName:     "Huda",
		OwnerEmail:    "owner@clinic.sa",
		OwnerPassword: "secret1",
	}
	if _, _, _, err := svc.RegisterClinic(context.Background(), in); err != nil {
		t.Fatalf("RegisterClinic: %v", err)
	}
	in.OwnerEmail = "other@clinic.sa"
	if _, _, _, err := svc.RegisterClinic(context.Background(), in); !errors.Is(err, clinic.ErrDuplicateName) {
		t.Errorf("err = %v, want clinic.ErrDuplicateName", err)
	}
}

func TestRegisterClinicRequiredFields(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []RegisterClinicInput{
		{OwnerName: "Huda", OwnerEmail: "o@c.sa", OwnerPassword: "secret1"},
		{ClinicName: "Alnoor", OwnerEmail: "o@c.sa", OwnerPassword: "secret1"},
		{ClinicName: "Alnoor", OwnerName: "Huda", OwnerPassword: "secret1"},
		{ClinicName: "Alnoor", OwnerName: "Huda", OwnerEmail: "o@c.sa", OwnerPassword: "short"},
	}
	for i, in := range cases {
		if _, _, _, err := svc.RegisterClinic(context.Background(), &in); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestMobileRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService()

	token, p, err := svc.MobileRegister(context.Background(), &MobileRegisterInput{
		Name: "Fahad", Email: "fahad@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("MobileRegister: %v", err)
	}
	if token == "" || p.MedicalRecordNumber == "" {
		t.Errorf("token = %q, mrn = %q; both should be set", token, p.MedicalRecordNumber)
	}

	token, p2, err := svc.MobileLogin(context.Background(), "fahad@example.com", "secret1")
	if err != nil {
		t.Fatalf("MobileLogin: %v", err)
	}
	if token == "" || p2.ID != p.ID {
		t.Errorf("login returned patient %d, want %d", p2.ID, p.ID)
	}

	if _, _, err := svc.MobileLogin(context.Background(), "fahad@example.com", "nope"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("err = %v, want ErrBadCredentials", err)
	}
}

func TestMobileLoginPatientWithoutPassword(t *testing.T) {
	svc, _, patients := newTestService()
	email := "walkin@example.com"
	if err := patients.Create(context.Background(), &patient.Patient{Name: "Walk-in", Email: &email}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// staff-created patients have no password and cannot use the app login
	if _, _, err := svc.MobileLogin(context.Background(), email, "anything"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("err = %v, want ErrBadCredentials", err)
	}
}
