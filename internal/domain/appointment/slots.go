package appointment

import (
	"time"

	"github.com/medcore/eyeclinic-api/internal/domain/doctor"
)

// SlotInterval is the booking grid. Every appointment occupies exactly one
// interval.
const SlotInterval = 30 * time.Minute

const clockLayout = "15:04"

// GridTimes expands a day's working hours into the 30-minute grid. The start
// is inclusive, the end exclusive, and slots falling inside
// [break_start, break_end) are skipped. Malformed times yield an empty grid.
func GridTimes(sc *doctor.Schedule) []string {
	start, err := time.Parse(clockLayout, sc.StartTime)
	if err != nil {
		return nil
	}
	end, err := time.Parse(clockLayout, sc.EndTime)
	if err != nil {
		return nil
	}

	var breakStart, breakEnd time.Time
	hasBreak := false
	if sc.BreakStart != nil && sc.BreakEnd != nil {
		bs, err1 := time.Parse(clockLayout, *sc.BreakStart)
		be, err2 := time.Parse(clockLayout, *sc.BreakEnd)
		if err1 == nil && err2 == nil {
			breakStart, breakEnd, hasBreak = bs, be, true
		}
	}

	var times []string
	for t := start; t.Before(end); t = t.Add(SlotInterval) {
		if hasBreak && !t.Before(breakStart) && t.Before(breakEnd) {
			continue
		}
		times = append(times, t.Format(clockLayout))
	}
	return times
}

// BuildSlots marks each grid time as available unless it appears in booked.
func BuildSlots(sc *doctor.Schedule, booked []string) []Slot {
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[b] = true
	}
	var slots []Slot
	for _, t := range GridTimes(sc) {
		slots = append(slots, Slot{Time: t, Available: !taken[t]})
	}
	return slots
}

// OnGrid reports whether t is a valid bookable time for the schedule.
func OnGrid(sc *doctor.Schedule, t string) bool {
	for _, g := range GridTimes(sc) {
		if g == t {
			return true
		}
	}
	return false
}
