package testresult

import "time"

// Result is a recorded diagnostic test. PatientName and DoctorName are
// denormalized at write time; reads fall back to the joined rows when the
// stored copies are empty.
type Result struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patientId"`
	DoctorID    *int64    `json:"doctorId"`
	TestType    string    `json:"testType"`
	TestDate    string    `json:"testDate"`
	Findings    *string   `json:"findings"`
	Notes       *string   `json:"notes"`
	PatientName string    `json:"patientName"`
	DoctorName  string    `json:"doctorName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	TestType *string `json:"testType"`
	TestDate *string `json:"testDate"`
	Findings *string `json:"findings"`
	Notes    *string `json:"notes"`
}

type Filter struct {
	ClinicID  int64
	PatientID int64
	DoctorID  int64
	TestType  string
}
