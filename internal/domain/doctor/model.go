package doctor

import "time"

type Doctor struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	UserID         *int64    `json:"userId"`
	Name           string    `json:"name"`
	Specialization *string   `json:"specialization"`
	Phone          *string   `json:"phone"`
	Email          *string   `json:"email"`
	ClinicID       *int64    `json:"clinicId"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Schedule is one weekly working-hours row. DayOfWeek follows time.Weekday
// (0 = Sunday). Times are HH:MM strings; the optional break window is
// excluded from bookable slots.
type Schedule struct {
	ID          int64   `json:"id"`
	DoctorID    int64   `json:"doctorId"`
	DayOfWeek   int     `json:"dayOfWeek"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	BreakStart  *string `json:"breakStart"`
	BreakEnd    *string `json:"breakEnd"`
	IsAvailable bool    `json:"isAvailable"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	ClinicID       *int64  `json:"clinicId"`
	IsActive       *bool   `json:"isActive"`
}

// Filter narrows List results.
type Filter struct {
	ClinicID       int64
	Specialization string
	Search         string
}
