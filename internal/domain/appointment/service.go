package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medcore/eyeclinic-api/internal/domain/doctor"
	"github.com/medcore/eyeclinic-api/internal/domain/patient"
	"github.com/medcore/eyeclinic-api/internal/platform/db"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorOffDay    = errors.New("doctor is not scheduled on that day")
	ErrOffGrid         = errors.New("time is outside the doctor's bookable slots")
	ErrNoSlots         = errors.New("no available slots in the next 30 days")
	ErrDayFull         = errors.New("no available slots on that date")
	ErrBadTransition   = errors.New("invalid status transition")
)

// searchHorizonDays bounds the auto-booking scan, starting from tomorrow.
const searchHorizonDays = 30

const dateLayout = "2006-01-02"

type Service struct {
	repo      Repository
	patients  patient.Repository
	doctors   doctor.Repository
	schedules doctor.ScheduleRepository
	tx        db.TxRunner
	now       func() time.Time
}

func NewService(repo Repository, patients patient.Repository, doctors doctor.Repository, schedules doctor.ScheduleRepository, tx db.TxRunner) *Service {
	return &Service{repo: repo, patients: patients, doctors: doctors, schedules: schedules, tx: tx, now: time.Now}
}

// Availability returns the doctor's slot grid for a date, each slot marked
// free or booked.
func (s *Service) Availability(ctx context.Context, doctorID int64, date string) ([]Slot, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", date)
	}
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, ErrNotFound
	}
	sc, err := s.schedules.GetForDay(ctx, doctorID, int(day.Weekday()))
	if errors.Is(err, pgx.ErrNoRows) {
		return []Slot{}, nil
	}
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return BuildSlots(sc, booked), nil
}

// NextAvailable scans up to 30 days starting tomorrow and returns the first
// free slot. A preferred HH:MM time wins on the first date where any slot is
// free and the preferred one is among them; otherwise the date's first free
// slot is returned.
func (s *Service) NextAvailable(ctx context.Context, doctorID int64, preferred string) (date, slot string, err error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return "", "", ErrNotFound
	}
	start := s.now().AddDate(0, 0, 1)
	for i := 0; i < searchHorizonDays; i++ {
		day := start.AddDate(0, 0, i)
		free, err := s.freeSlots(ctx, doctorID, day)
		if err != nil {
			return "", "", err
		}
		if len(free) == 0 {
			continue
		}
		d := day.Format(dateLayout)
		if preferred != "" {
			for _, t := range free {
				if t == preferred {
					return d, t, nil
				}
			}
		}
		return d, free[0], nil
	}
	return "", "", ErrNoSlots
}

func (s *Service) freeSlots(ctx context.Context, doctorID int64, day time.Time) ([]string, error) {
	sc, err := s.schedules.GetForDay(ctx, doctorID, int(day.Weekday()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.BookedTimes(ctx, doctorID, day.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[b] = true
	}
	var free []string
	for _, t := range GridTimes(sc) {
		if !taken[t] {
			free = append(free, t)
		}
	}
	return free, nil
}

// Create books an appointment. Missing date and time trigger auto-assignment:
// both empty picks the earliest slot within the horizon (a.Time acts as a
// preferred time), date alone picks that date's first free slot. The insert
// runs in a transaction; a unique index on the doctor's slot turns a lost
// race into ErrSlotTaken.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID <= 0 || a.DoctorID <= 0 {
		return errors.New("patientId and doctorId are required")
	}
	if a.Type == nil || strings.TrimSpace(*a.Type) == "" {
		return errors.New("type is required")
	}
	a.Status = NormalizeStatus(a.Status)
	if !ValidStatus(a.Status) {
		return fmt.Errorf("invalid status %q", a.Status)
	}

	if a.Phone == nil || *a.Phone == "" {
		p, err := s.patients.GetByID(ctx, a.PatientID)
		if err != nil {
			return ErrPatientNotFound
		}
		a.Phone = p.Phone
	}

	if a.Date == "" {
		date, slot, err := s.NextAvailable(ctx, a.DoctorID, a.Time)
		if err != nil {
			return err
		}
		a.Date, a.Time = date, slot
	} else {
		day, err := time.Parse(dateLayout, a.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q", a.Date)
		}
		sc, err := s.schedules.GetForDay(ctx, a.DoctorID, int(day.Weekday()))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDoctorOffDay
		}
		if err != nil {
			return err
		}
		if a.Time == "" {
			free, err := s.freeSlots(ctx, a.DoctorID, day)
			if err != nil {
				return err
			}
			if len(free) == 0 {
				return ErrDayFull
			}
			a.Time = free[0]
		} else if !OnGrid(sc, a.Time) {
			return ErrOffGrid
		}
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, a)
	})
}

// BookAuto is the patient-app booking path: the preferred slot is taken when
// it is free, otherwise the scan falls back to the earliest available slot,
// keeping a.Time as the preferred-time hint. Type defaults to consultation.
func (s *Service) BookAuto(ctx context.Context, a *Appointment) error {
	if a.Type == nil || strings.TrimSpace(*a.Type) == "" {
		t := "consultation"
		a.Type = &t
	}
	if a.Date != "" && a.Time != "" {
		day, err := time.Parse(dateLayout, a.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q", a.Date)
		}
		free, err := s.freeSlots(ctx, a.DoctorID, day)
		if err != nil {
			return err
		}
		for _, t := range free {
			if t == a.Time {
				return s.Create(ctx, a)
			}
		}
		a.Date = ""
	}
	return s.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Update(ctx context.Context, id int64, p *Patch) (*Appointment, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if p.Status != nil {
		norm := NormalizeStatus(*p.Status)
		if !ValidStatus(norm) {
			return nil, fmt.Errorf("%w: %q", ErrBadTransition, *p.Status)
		}
		p.Status = &norm
	}
	if p.Date != nil {
		if _, err := time.Parse(dateLayout, *p.Date); err != nil {
			return nil, fmt.Errorf("invalid date %q", *p.Date)
		}
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// SetStatus applies a status change. Completed and cancelled are terminal.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	norm := NormalizeStatus(status)
	if !ValidStatus(norm) {
		return nil, fmt.Errorf("%w: %q", ErrBadTransition, status)
	}
	if (a.Status == StatusCompleted || a.Status == StatusCancelled) && norm != a.Status {
		return nil, fmt.Errorf("%w: %s is final", ErrBadTransition, a.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, norm); err != nil {
		return nil, err
	}
	a.Status = norm
	return a, nil
}

// Cancel marks the appointment cancelled, freeing its slot.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

// CancelOwned cancels an appointment only when it belongs to the given
// patient. Someone else's appointment looks like a missing one.
func (s *Service) CancelOwned(ctx context.Context, id, patientID int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil || a.PatientID != patientID {
		return ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}
