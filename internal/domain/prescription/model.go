package prescription

import "time"

// Item is one prescribed medicine line. The set is stored as a JSONB array.
type Item struct {
	Medicine     string `json:"medicine"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

type Prescription struct {
	ID          int64     `json:"id"`
	Number      string    `json:"number"`
	PatientID   int64     `json:"patientId"`
	DoctorID    int64     `json:"doctorId"`
	ClinicID    *int64    `json:"clinicId"`
	Items       []Item    `json:"items"`
	Notes       *string   `json:"notes"`
	PatientName string    `json:"patientName,omitempty"`
	DoctorName  string    `json:"doctorName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Items *[]Item `json:"items"`
	Notes *string `json:"notes"`
}

type Filter struct {
	ClinicID  int64
	PatientID int64
	DoctorID  int64
}
