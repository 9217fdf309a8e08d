package patient

import "time"

type Patient struct {
	ID                  int64      `json:"id"`
	MedicalRecordNumber string     `json:"medicalRecordNumber"`
	Name                string     `json:"name"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	DateOfBirth         *string    `json:"dateOfBirth"`
	Gender              *string    `json:"gender"`
	Address             *string    `json:"address"`
	PasswordHash        string     `json:"-"`
	ClinicID            *int64     `json:"clinicId"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	DeletedAt           *time.Time `json:"-"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`
	Address     *string `json:"address"`
	ClinicID    *int64  `json:"clinicId"`
}

// Filter narrows List results. Search matches name, phone, or medical
// record number.
type Filter struct {
	ClinicID int64
	Search   string
}
