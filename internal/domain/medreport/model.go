package medreport

import "time"

// Report is a medical report issued after a visit. ReportDate is YYYY-MM-DD.
type Report struct {
	ID              int64     `json:"id"`
	Number          string    `json:"number"`
	PatientID       int64     `json:"patientId"`
	DoctorID        int64     `json:"doctorId"`
	ClinicID        *int64    `json:"clinicId"`
	Diagnosis       string    `json:"diagnosis"`
	Findings        *string   `json:"findings"`
	Recommendations *string   `json:"recommendations"`
	ReportDate      string    `json:"reportDate"`
	PatientName     string    `json:"patientName,omitempty"`
	DoctorName      string    `json:"doctorName,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Diagnosis       *string `json:"diagnosis"`
	Findings        *string `json:"findings"`
	Recommendations *string `json:"recommendations"`
	ReportDate      *string `json:"reportDate"`
}

type Filter struct {
	ClinicID  int64
	PatientID int64
	DoctorID  int64
}
