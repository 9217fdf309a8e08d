package colortest

import "time"

// Plate is one catalog entry of the color vision test, typically an
// Ishihara-style plate stored as a base64 image.
type Plate struct {
	ID            int64     `json:"id"`
	TestNumber    int       `json:"testNumber"`
	TestName      string    `json:"testName"`
	Image         string    `json:"image"`
	CorrectAnswer string    `json:"correctAnswer"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PlatePatch carries a partial catalog update. Nil fields are left untouched.
type PlatePatch struct {
	TestNumber    *int    `json:"testNumber"`
	TestName      *string `json:"testName"`
	Image         *string `json:"image"`
	CorrectAnswer *string `json:"correctAnswer"`
	Description   *string `json:"description"`
}

// Verdict thresholds for the session score.
const (
	VerdictDetected   = "Color Blindness Detected"
	VerdictDeficiency = "Possible Color Deficiency"
	VerdictNormal     = "Normal"
)

// Answer is one graded response inside a session.
type Answer struct {
	ID        int64  `json:"id"`
	SessionID int64  `json:"-"`
	TestID    int64  `json:"testId"`
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"isCorrect"`
}

// Session is one completed run of the test by a patient.
type Session struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patientId"`
	Total     int       `json:"total"`
	Correct   int       `json:"correct"`
	Score     float64   `json:"score"`
	Result    string    `json:"result"`
	Answers   []Answer  `json:"answers,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmittedAnswer is the client payload for one plate.
type SubmittedAnswer struct {
	TestID int64  `json:"testId"`
	Answer string `json:"answer"`
}

// Summary aggregates a patient's history.
type Summary struct {
	TotalSessions int      `json:"totalSessions"`
	LatestScore   *float64 `json:"latestScore"`
	LatestResult  *string  `json:"latestResult"`
	BestScore     *float64 `json:"bestScore"`
}
