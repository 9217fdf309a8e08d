package analytics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChange(t *testing.T) {
	cases := []struct {
		curr, prev float64
		want       string
		positive   bool
	}{
		{0, 0, "0%", false},
		{5, 0, "+100%", true},
		{150, 100, "+50%", true},
		{100, 100, "+0%", true},
		{50, 100, "-50%", false},
		{110, 100, "+10%", true},
		{104, 100, "+4%", true},
		{105, 100, "+5%", true}, // rounds half away from zero
	}
	for _, tc := range cases {
		got, pos := change(tc.curr, tc.prev)
		if got != tc.want || pos != tc.positive {
			t.Errorf("change(%v, %v) = (%q, %v), want (%q, %v)",
				tc.curr, tc.prev, got, pos, tc.want, tc.positive)
		}
	}
}

// windowedRepo returns fixed counts keyed by the from-date of the query so a
// test can give current and previous windows different data.
type windowedRepo struct {
	byWindow map[string]map[string]int
	patients map[string]int
	series   []SeriesPoint

	seriesGranularity string
	windows           [][2]string
}

func (m *windowedRepo) CountByStatus(ctx context.Context, clinicID int64, from, to string) (map[string]int, error) {
	m.windows = append(m.windows, [2]string{from, to})
	return m.byWindow[from], nil
}

func (m *windowedRepo) CountNewPatients(ctx context.Context, clinicID int64, from, to string) (int, error) {
	return m.patients[from], nil
}

func (m *windowedRepo) Series(ctx context.Context, clinicID int64, from, to, granularity string) ([]SeriesPoint, error) {
	m.seriesGranularity = granularity
	return m.series, nil
}

func (m *windowedRepo) ByDoctor(ctx context.Context, clinicID int64, from, to string) ([]DoctorBreakdown, error) {
	return []DoctorBreakdown{{DoctorID: 1, DoctorName: "Dr. Salem", Total: 4, Completed: 2, Cancelled: 1}}, nil
}

var today = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestService(repo *windowedRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return today }
	return svc
}

func TestDashboardWindows(t *testing.T) {
	repo := &windowedRepo{
		byWindow: map[string]map[string]int{},
		patients: map[string]int{},
	}
	svc := newTestService(repo)

	d, err := svc.Dashboard(context.Background(), 0, PeriodWeek)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	// week reaches 6 days back: current [06-24, 06-30], previous [06-17, 06-23]
	if d.From != "2025-06-24" || d.To != "2025-06-30" {
		t.Errorf("window = [%s, %s], want [2025-06-24, 2025-06-30]", d.From, d.To)
	}
	if len(repo.windows) != 2 {
		t.Fatalf("queried %d windows, want 2", len(repo.windows))
	}
	prev := repo.windows[1]
	if prev[0] != "2025-06-17" || prev[1] != "2025-06-23" {
		t.Errorf("previous window = %v, want [2025-06-17 2025-06-23]", prev)
	}
}

func TestDashboardMetricsAndRevenue(t *testing.T) {
	repo := &windowedRepo{
		byWindow: map[string]map[string]int{
			"2025-06-24": {"completed": 4, "cancelled": 1, "pending": 2, "confirmed": 1},
			"2025-06-17": {"completed": 2},
		},
		patients: map[string]int{"2025-06-24": 3, "2025-06-17": 3},
	}
	svc := newTestService(repo)

	d, err := svc.Dashboard(context.Background(), 0, PeriodWeek)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.TotalAppointments.Value != 8 {
		t.Errorf("total = %v, want 8", d.TotalAppointments.Value)
	}
	if d.CompletedAppointments.Change != "+100%" {
		t.Errorf("completed change = %q, want +100%%", d.CompletedAppointments.Change)
	}
	if d.Revenue.Value != 1000 {
		t.Errorf("revenue = %v, want 4 completed x 250", d.Revenue.Value)
	}
	if d.Expenses.Value != 600 {
		t.Errorf("expenses = %v, want 60%% of revenue", d.Expenses.Value)
	}
	if d.Profit.Value != 400 {
		t.Errorf("profit = %v, want 400", d.Profit.Value)
	}
	if d.NewPatients.Change != "+0%" || !d.NewPatients.IsPositive {
		t.Errorf("newPatients change = %q/%v, want +0%%/positive", d.NewPatients.Change, d.NewPatients.IsPositive)
	}
}

func TestDashboardGranularity(t *testing.T) {
	cases := map[string]string{
		PeriodDay:     "hour",
		PeriodWeek:    "day",
		PeriodMonth:   "day",
		PeriodQuarter: "month",
		PeriodYear:    "month",
	}
	for period, want := range cases {
		repo := &windowedRepo{byWindow: map[string]map[string]int{}, patients: map[string]int{}}
		svc := newTestService(repo)
		if _, err := svc.Dashboard(context.Background(), 0, period); err != nil {
			t.Fatalf("Dashboard(%s): %v", period, err)
		}
		if repo.seriesGranularity != want {
			t.Errorf("granularity for %s = %q, want %q", period, repo.seriesGranularity, want)
		}
	}
}

func TestDashboardBadPeriod(t *testing.T) {
	svc := newTestService(&windowedRepo{})
	if _, err := svc.Dashboard(context.Background(), 0, "fortnight"); !errors.Is(err, ErrBadPeriod) {
		t.Errorf("err = %v, want ErrBadPeriod", err)
	}
}

func TestMonthlyReportBounds(t *testing.T) {
	repo := &windowedRepo{
		byWindow: map[string]map[string]int{"2025-02-01": {"completed": 2}},
		patients: map[string]int{},
	}
	svc := newTestService(repo)

	r, err := svc.MonthlyReport(context.Background(), 0, 2025, 2)
	if err != nil {
		t.Fatalf("MonthlyReport: %v", err)
	}
	if r.From != "2025-02-01" || r.To != "2025-02-28" {
		t.Errorf("window = [%s, %s], want full February", r.From, r.To)
	}
	if r.Revenue != 500 || r.Profit != 200 {
		t.Errorf("revenue/profit = %v/%v, want 500/200", r.Revenue, r.Profit)
	}
	if len(r.ByDoctor) != 1 || r.ByDoctor[0].DoctorName != "Dr. Salem" {
		t.Errorf("byDoctor = %+v", r.ByDoctor)
	}

	if _, err := svc.MonthlyReport(context.Background(), 0, 2025, 13); err == nil {
		t.Error("expected error for month 13")
	}
}
