package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/medcore/eyeclinic-api/internal/domain/appointment"
)

var ErrBadPeriod = errors.New("period must be day, week, month, quarter or year")

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// change compares a value to the previous window. A previous value of zero
// has no meaningful percentage, so any growth from zero reads as +100%.
func change(curr, prev float64) (string, bool) {
	if prev == 0 {
		if curr == 0 {
			return "0%", false
		}
		return "+100%", true
	}
	pct := int(math.Round((curr - prev) / prev * 100))
	if pct >= 0 {
		return fmt.Sprintf("+%d%%", pct), true
	}
	return fmt.Sprintf("%d%%", pct), false
}

func metric(curr, prev float64) Metric {
	c, pos := change(curr, prev)
	return Metric{Value: curr, Change: c, IsPositive: pos}
}

type windowTotals struct {
	total, completed, cancelled, pending int
	newPatients                          int
	revenue, expenses, profit            float64
}

func (s *Service) totals(ctx context.Context, clinicID int64, from, to string) (*windowTotals, error) {
	byStatus, err := s.repo.CountByStatus(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	newPatients, err := s.repo.CountNewPatients(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	var t windowTotals
	for _, n := range byStatus {
		t.total += n
	}
	t.completed = byStatus[appointment.StatusCompleted]
	t.cancelled = byStatus[appointment.StatusCancelled]
	t.pending = byStatus[appointment.StatusPending]
	t.newPatients = newPatients
	t.revenue = float64(t.completed) * ConsultationFeeSAR
	t.expenses = t.revenue * ExpenseShare
	t.profit = t.revenue - t.expenses
	return &t, nil
}

// Dashboard computes the metrics for the period ending today, each compared
// to the equal-length window immediately before it.
func (s *Service) Dashboard(ctx context.Context, clinicID int64, period string) (*Dashboard, error) {
	days, ok := periodDays[period]
	if !ok {
		return nil, ErrBadPeriod
	}
	today := s.now()
	to := today.Format(dateLayout)
	from := today.AddDate(0, 0, -days).Format(dateLayout)
	prevTo := today.AddDate(0, 0, -days-1).Format(dateLayout)
	prevFrom := today.AddDate(0, 0, -2*days-1).Format(dateLayout)

	curr, err := s.totals(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	prev, err := s.totals(ctx, clinicID, prevFrom, prevTo)
	if err != nil {
		return nil, err
	}

	granularity := periodGranularity[period]
	series, err := s.repo.Series(ctx, clinicID, from, to, granularity)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Period:                period,
		From:                  from,
		To:                    to,
		Granularity:           granularity,
		TotalAppointments:     metric(float64(curr.total), float64(prev.total)),
		CompletedAppointments: metric(float64(curr.completed), float64(prev.completed)),
		CancelledAppointments: metric(float64(curr.cancelled), float64(prev.cancelled)),
		PendingAppointments:   metric(float64(curr.pending), float64(prev.pending)),
		NewPatients:           metric(float64(curr.newPatients), float64(prev.newPatients)),
		Revenue:               metric(curr.revenue, prev.revenue),
		Expenses:              metric(curr.expenses, prev.expenses),
		Profit:                metric(curr.profit, prev.profit),
		Timeseries:            series,
	}, nil
}

func (s *Service) report(ctx context.Context, clinicID int64, from, to string) (*Report, error) {
	byStatus, err := s.repo.CountByStatus(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	byDoctor, err := s.repo.ByDoctor(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	newPatients, err := s.repo.CountNewPatients(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}
	revenue := float64(byStatus[appointment.StatusCompleted]) * ConsultationFeeSAR
	expenses := revenue * ExpenseShare
	return &Report{
		From:       from,
		To:         to,
		ByStatus:   byStatus,
		ByDoctor:   byDoctor,
		Revenue:    revenue,
		Expenses:   expenses,
		Profit:     revenue - expenses,
		Total:      total,
		NewPatient: newPatients,
	}, nil
}

// DailyReport summarizes a single day, defaulting to today.
func (s *Service) DailyReport(ctx context.Context, clinicID int64, date string) (*Report, error) {
	if date == "" {
		date = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q", date)
	}
	return s.report(ctx, clinicID, date, date)
}

// MonthlyReport summarizes a calendar month.
func (s *Service) MonthlyReport(ctx context.Context, clinicID int64, year, month int) (*Report, error) {
	if year < 2000 || year > 2200 || month < 1 || month > 12 {
		return nil, errors.New("invalid year or month")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return s.report(ctx, clinicID, first.Format(dateLayout), last.Format(dateLayout))
}
