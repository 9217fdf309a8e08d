package authn

import (
	"context"
	"errors"
	"strings"

	"github.com/medcore/eyeclinic-api/internal/domain/clinic"
	"github.com/medcore/eyeclinic-api/internal/domain/patient"
	"github.com/medcore/eyeclinic-api/internal/domain/user"
	"github.com/medcore/eyeclinic-api/internal/platform/auth"
	"github.com/medcore/eyeclinic-api/internal/platform/db"
)

var (
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrPendingApproval = errors.New("account is awaiting approval")
	ErrAccountDisabled = errors.New("account is not active")
	ErrDuplicateEmail  = errors.New("email is already registered")
)

type Service struct {
	users    user.Repository
	patients patient.Repository
	clinics  *clinic.Service
	issuer   *auth.TokenIssuer
	tx       db.TxRunner
}

func NewService(users user.Repository, patients patient.Repository, clinics *clinic.Service, issuer *auth.TokenIssuer, tx db.TxRunner) *Service {
	return &Service{users: users, patients: patients, clinics: clinics, issuer: issuer, tx: tx}
}

// Login authenticates a staff member. Only active accounts get a token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrBadCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}
	switch u.Status {
	case user.StatusActive:
	case user.StatusPending:
		return "", nil, ErrPendingApproval
	default:
		return "", nil, ErrAccountDisabled
	}
	token, err := s.issuer.Sign(u.ID, u.Email, u.Role, u.Name, u.ClinicID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// RegisterInput is the staff signup payload. When byAdmin is set the account
// starts active; self-registered staff wait for approval.
type RegisterInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	ClinicID *int64  `json:"clinicId"`
	Phone    *string `json:"phone"`
}

func (s *Service) Register(ctx context.Context, in *RegisterInput, byAdmin bool) (*user.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" {
		return nil, errors.New("name and email are required")
	}
	if len(in.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	switch in.Role {
	case auth.RoleAdmin, auth.RoleDoctor, auth.RoleReceptionist:
	default:
		return nil, errors.New("role must be admin, doctor or receptionist")
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	status := user.StatusPending
	if byAdmin {
		status = user.StatusActive
	}
	u := &user.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       status,
		ClinicID:     in.ClinicID,
		Phone:        in.Phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterClinicInput is the public clinic signup payload: a new clinic plus
// its owner's admin account.
type RegisterClinicInput struct {
	ClinicName    string  `json:"clinicName"`
	ClinicPhone   *string `json:"clinicPhone"`
	ClinicEmail   *string `json:"clinicEmail"`
	ClinicAddress *string `json:"clinicAddress"`
	OwnerName     string  `json:"ownerName"`
	OwnerEmail    string  `json:"ownerEmail"`
	OwnerPhone    *string `json:"ownerPhone"`
	OwnerPassword string  `json:"ownerPassword"`
}

// RegisterClinic creates a clinic and its owner admin account in one
// transaction, so a failed user insert cannot leave an ownerless clinic.
// The owner is active immediately and gets a signed token.
func (s *Service) RegisterClinic(ctx context.Context, in *RegisterClinicInput) (string, *user.User, *clinic.Clinic, error) {
	in.OwnerEmail = strings.ToLower(strings.TrimSpace(in.OwnerEmail))
	if strings.TrimSpace(in.ClinicName) == "" || in.OwnerName == "" || in.OwnerEmail == "" {
		return "", nil, nil, errors.New("clinic name, owner name and owner email are required")
	}
	if len(in.OwnerPassword) < 6 {
		return "", nil, nil, errors.New("password must be at least 6 characters")
	}
	if _, err := s.users.GetByEmail(ctx, in.OwnerEmail); err == nil {
		return "", nil, nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(in.OwnerPassword)
	if err != nil {
		return "", nil, nil, err
	}

	c := &clinic.Clinic{
		Name:    in.ClinicName,
		Phone:   in.ClinicPhone,
		Email:   in.ClinicEmail,
		Address: in.ClinicAddress,
	}
	u := &user.User{
		Name:         in.OwnerName,
		Email:        in.OwnerEmail,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		Status:       user.StatusActive,
		Phone:        in.OwnerPhone,
	}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.clinics.Create(ctx, c); err != nil {
			return err
		}
		u.ClinicID = &c.ID
		return s.users.Create(ctx, u)
	})
	if err != nil {
		return "", nil, nil, err
	}

	token, err := s.issuer.Sign(u.ID, u.Email, u.Role, u.Name, u.ClinicID)
	if err != nil {
		return "", nil, nil, err
	}
	return token, u, c, nil
}

// Me returns the account behind a token's claims.
func (s *Service) Me(ctx context.Context, userID int64) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

// MobileRegisterInput is the patient app signup payload.
type MobileRegisterInput struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`
}

// MobileRegister creates a patient account with a login password and an
// auto-assigned medical record number.
func (s *Service) MobileRegister(ctx context.Context, in *MobileRegisterInput) (string, *patient.Patient, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" {
		return "", nil, errors.New("name and email are required")
	}
	if len(in.Password) < 6 {
		return "", nil, errors.New("password must be at least 6 characters")
	}
	if _, err := s.patients.GetByEmail(ctx, in.Email); err == nil {
		return "", nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", nil, err
	}
	p := &patient.Patient{
		Name:         in.Name,
		Email:        &in.Email,
		Phone:        in.Phone,
		DateOfBirth:  in.DateOfBirth,
		Gender:       in.Gender,
		PasswordHash: hash,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return "", nil, err
	}
	token, err := s.issuer.Sign(p.ID, in.Email, auth.RolePatient, p.Name, p.ClinicID)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

// MobileLogin authenticates a patient by email and password.
func (s *Service) MobileLogin(ctx context.Context, email, password string) (string, *patient.Patient, error) {
	p, err := s.patients.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrBadCredentials
	}
	if p.PasswordHash == "" {
		return "", nil, ErrBadCredentials
	}
	if !auth.CheckPassword(p.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}
	var email2 string
	if p.Email != nil {
		email2 = *p.Email
	}
	token, err := s.issuer.Sign(p.ID, email2, auth.RolePatient, p.Name, p.ClinicID)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}
