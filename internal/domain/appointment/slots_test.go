package appointment

import (
	"reflect"
	"testing"

	"github.com/medcore/eyeclinic-api/internal/domain/doctor"
)

func strPtr(s string) *string { return &s }

func TestGridTimesBasic(t *testing.T) {
	sc := &doctor.Schedule{StartTime: "09:00", EndTime: "11:00"}
	got := GridTimes(sc)
	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GridTimes = %v, want %v", got, want)
	}
}

func TestGridTimesEndIsExclusive(t *testing.T) {
	sc := &doctor.Schedule{StartTime: "09:00", EndTime: "09:30"}
	got := GridTimes(sc)
	if len(got) != 1 || got[0] != "09:00" {
		t.Errorf("GridTimes = %v, want [09:00]", got)
	}
}

func TestGridTimesSkipsBreak(t *testing.T) {
	sc := &doctor.Schedule{
		StartTime:  "09:00",
		EndTime:    "13:00",
		BreakStart: strPtr("11:00"),
		BreakEnd:   strPtr("12:00"),
	}
	got := GridTimes(sc)
	want := []string{"09:00", "09:30", "10:00", "10:30", "12:00", "12:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GridTimes = %v, want %v", got, want)
	}
}

func TestGridTimesMalformed(t *testing.T) {
	if got := GridTimes(&doctor.Schedule{StartTime: "nine", EndTime: "17:00"}); got != nil {
		t.Errorf("GridTimes = %v, want nil", got)
	}
}

func TestBuildSlotsMarksBooked(t *testing.T) {
	sc := &doctor.Schedule{StartTime: "09:00", EndTime: "10:30"}
	slots := BuildSlots(sc, []string{"09:30"})
	want := []Slot{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: false},
		{Time: "10:00", Available: true},
	}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("BuildSlots = %v, want %v", slots, want)
	}
}

func TestOnGrid(t *testing.T) {
	sc := &doctor.Schedule{
		StartTime:  "09:00",
		EndTime:    "12:00",
		BreakStart: strPtr("10:00"),
		BreakEnd:   strPtr("10:30"),
	}
	cases := []struct {
		time string
		want bool
	}{
		{"09:00", true},
		{"09:15", false}, // off the half-hour grid
		{"10:00", false}, // inside break
		{"10:30", true},  // break end is exclusive
		{"12:00", false}, // end is exclusive
	}
	for _, tc := range cases {
		if got := OnGrid(sc, tc.time); got != tc.want {
			t.Errorf("OnGrid(%s) = %v, want %v", tc.time, got, tc.want)
		}
	}
}
