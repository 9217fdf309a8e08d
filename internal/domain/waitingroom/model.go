package waitingroom

import "time"

const (
	StatusWaiting    = "waiting"
	StatusCalled     = "called"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// ValidStatus reports whether s is a known queue status.
func ValidStatus(s string) bool {
	switch s {
	case StatusWaiting, StatusCalled, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Entry is one patient in the day's queue. Position starts at 1 and stays
// gapless: removals re-compact the remaining entries.
type Entry struct {
	ID            int64     `json:"id"`
	ClinicID      *int64    `json:"clinicId"`
	PatientID     int64     `json:"patientId"`
	AppointmentID *int64    `json:"appointmentId"`
	Date          string    `json:"date"`
	Position      int       `json:"position"`
	Status        string    `json:"status"`
	PatientName   string    `json:"patientName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
