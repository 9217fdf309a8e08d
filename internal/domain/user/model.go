package user

import "time"

// Account statuses. Self-registered staff start as pending until an admin
// approves them.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
	StatusInactive = "inactive"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	ClinicID     *int64    `json:"clinicId"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Patch carries a partial profile update. Nil fields are left untouched.
type Patch struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	ClinicID *int64  `json:"clinicId"`
}

// Filter narrows List results.
type Filter struct {
	Status   string
	Role     string
	ClinicID int64
	Search   string
}
