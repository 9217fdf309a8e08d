package analytics

// Period names accepted by the dashboard.
const (
	PeriodDay     = "day"
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
)

// periodDays is how far back each period reaches from today, inclusive.
var periodDays = map[string]int{
	PeriodDay:     0,
	PeriodWeek:    6,
	PeriodMonth:   29,
	PeriodQuarter: 89,
	PeriodYear:    364,
}

// Granularity of the dashboard timeseries per period.
var periodGranularity = map[string]string{
	PeriodDay:     "hour",
	PeriodWeek:    "day",
	PeriodMonth:   "day",
	PeriodQuarter: "month",
	PeriodYear:    "month",
}

// Pricing model: every completed appointment bills a flat consultation fee,
// and expenses are estimated as a fixed share of revenue.
const (
	ConsultationFeeSAR = 250
	ExpenseShare       = 0.6
)

// Metric is a dashboard value with its change against the previous window.
type Metric struct {
	Value      float64 `json:"value"`
	Change     string  `json:"change"`
	IsPositive bool    `json:"isPositive"`
}

// SeriesPoint is one bucket of the appointments timeseries.
type SeriesPoint struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// Dashboard is the full analytics payload for one period.
type Dashboard struct {
	Period                string        `json:"period"`
	From                  string        `json:"from"`
	To                    string        `json:"to"`
	Granularity           string        `json:"granularity"`
	TotalAppointments     Metric        `json:"totalAppointments"`
	CompletedAppointments Metric        `json:"completedAppointments"`
	CancelledAppointments Metric        `json:"cancelledAppointments"`
	PendingAppointments   Metric        `json:"pendingAppointments"`
	NewPatients           Metric        `json:"newPatients"`
	Revenue               Metric        `json:"revenue"`
	Expenses              Metric        `json:"expenses"`
	Profit                Metric        `json:"profit"`
	Timeseries            []SeriesPoint `json:"timeseries"`
}

// DoctorBreakdown is one doctor's share of a report window.
type DoctorBreakdown struct {
	DoctorID   int64  `json:"doctorId"`
	DoctorName string `json:"doctorName"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Cancelled  int    `json:"cancelled"`
}

// Report is a daily or monthly appointment summary.
type Report struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	ByStatus   map[string]int    `json:"byStatus"`
	ByDoctor   []DoctorBreakdown `json:"byDoctor"`
	Revenue    float64           `json:"revenue"`
	Expenses   float64           `json:"expenses"`
	Profit     float64           `json:"profit"`
	Total      int               `json:"total"`
	NewPatient int               `json:"newPatients"`
}
