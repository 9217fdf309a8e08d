package clinic

import "time"

// Clinic is a tenant of the platform. Code is the short join code staff use
// when registering.
type Clinic struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"isActive"`
}
