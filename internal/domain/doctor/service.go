package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medcore/eyeclinic-api/internal/platform/db"
)

var (
	ErrNotFound        = errors.New("doctor not found")
	ErrInvalidSchedule = errors.New("invalid schedule")
)

type Service struct {
	repo      Repository
	schedules ScheduleRepository
	tx        db.TxRunner
}

func NewService(repo Repository, schedules ScheduleRepository, tx db.TxRunner) *Service {
	return &Service{repo: repo, schedules: schedules, tx: tx}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return errors.New("doctor name is required")
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Doctor, error) {
	d, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Update(ctx context.Context, id int64, p *Patch) (*Doctor, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) Schedules(ctx context.Context, doctorID int64) ([]*Schedule, error) {
	if _, err := s.repo.GetByID(ctx, doctorID); err != nil {
		return nil, ErrNotFound
	}
	return s.schedules.ListByDoctor(ctx, doctorID)
}

// SetSchedules validates and replaces the doctor's whole weekly schedule in
// one transaction.
func (s *Service) SetSchedules(ctx context.Context, doctorID int64, schedules []*Schedule) error {
	if _, err := s.repo.GetByID(ctx, doctorID); err != nil {
		return ErrNotFound
	}
	seen := make(map[int]bool)
	for _, sc := range schedules {
		if err := validateSchedule(sc); err != nil {
			return err
		}
		if seen[sc.DayOfWeek] {
			return fmt.Errorf("%w: duplicate day %d", ErrInvalidSchedule, sc.DayOfWeek)
		}
		seen[sc.DayOfWeek] = true
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.schedules.ReplaceAll(ctx, doctorID, schedules)
	})
}

func validateSchedule(sc *Schedule) error {
	if sc.DayOfWeek < 0 || sc.DayOfWeek > 6 {
		return fmt.Errorf("%w: day of week must be 0-6", ErrInvalidSchedule)
	}
	start, err := parseClock(sc.StartTime)
	if err != nil {
		return fmt.Errorf("%w: bad start time %q", ErrInvalidSchedule, sc.StartTime)
	}
	end, err := parseClock(sc.EndTime)
	if err != nil {
		return fmt.Errorf("%w: bad end time %q", ErrInvalidSchedule, sc.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidSchedule)
	}
	if (sc.BreakStart == nil) != (sc.BreakEnd == nil) {
		return fmt.Errorf("%w: break start and end must both be set", ErrInvalidSchedule)
	}
	if sc.BreakStart != nil {
		bs, err := parseClock(*sc.BreakStart)
		if err != nil {
			return fmt.Errorf("%w: bad break start %q", ErrInvalidSchedule, *sc.BreakStart)
		}
		be, err := parseClock(*sc.BreakEnd)
		if err != nil {
			return fmt.Errorf("%w: bad break end %q", ErrInvalidSchedule, *sc.BreakEnd)
		}
		if !bs.Before(be) || bs.Before(start) || be.After(end) {
			return fmt.Errorf("%w: break must fall inside working hours", ErrInvalidSchedule)
		}
	}
	return nil
}

func parseClock(v string) (time.Time, error) {
	return time.Parse("15:04", v)
}
