package appointment

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// NormalizeStatus maps legacy client values onto the canonical set. An empty
// status means the appointment was booked directly at the desk, so it is
// confirmed from the start.
func NormalizeStatus(s string) string {
	switch s {
	case "scheduled":
		return StatusPending
	case "no-show":
		return StatusCancelled
	case "":
		return StatusConfirmed
	}
	return s
}

// ValidStatus reports whether s is one of the canonical statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booked 30-minute visit. Date is YYYY-MM-DD and Time is
// HH:MM, both clinic-local.
type Appointment struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patientId"`
	DoctorID    int64     `json:"doctorId"`
	ClinicID    *int64    `json:"clinicId"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Type        *string   `json:"type"`
	Status      string    `json:"status"`
	Phone       *string   `json:"phone"`
	Notes       *string   `json:"notes"`
	PatientName string    `json:"patientName,omitempty"`
	DoctorName  string    `json:"doctorName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Type   *string `json:"type"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// Filter narrows list queries.
type Filter struct {
	ClinicID  int64
	DoctorID  int64
	PatientID int64
	Date      string
	Status    string
}

// Slot is one grid position on a doctor's day.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
