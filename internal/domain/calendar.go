package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Weekday day of week with Monday as the first day
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek number of entries in a BusinessCalendar
const DaysInWeek = 7

var weekdayNames = [DaysInWeek]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// WeekdayOf returns the weekday of date
func WeekdayOf(date time.Time) Weekday {
	return Weekday((int(date.Weekday()) + 6) % DaysInWeek)
}

// ParseWeekday parses a lower-case English day name ("monday") or its number 1..7
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range weekdayNames {
		if s == name || s == fmt.Sprint(i+1) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// IsValid reports whether w is one of the seven days
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.IsValid() {
		return fmt.Sprintf("weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// DayHours opening hours for one weekday
type DayHours struct {
	Open   types.TimeString
	Close  types.TimeString
	Closed bool
}

// Validate checks open < close for a day that is not closed
func (h DayHours) Validate() error {
	if h.Closed {
		return nil
	}
	if err := h.Open.Validate(); err != nil {
		return fmt.Errorf("open time %q: %v", h.Open, err)
	}
	if err := h.Close.Validate(); err != nil {
		return fmt.Errorf("close time %q: %v", h.Close, err)
	}
	if h.Open.Minutes() >= types.MinutesInDay {
		return fmt.Errorf("open time %q must be before 24:00", h.Open)
	}
	if !h.Open.IsBefore(h.Close) {
		return fmt.Errorf("open time %s must be before close time %s", h.Open, h.Close)
	}
	return nil
}

// Length returns the open window in minutes, 0 for a closed day
func (h DayHours) Length() int {
	if h.Closed {
		return 0
	}
	return h.Close.Minutes() - h.Open.Minutes()
}

// BusinessCalendar weekly opening hours indexed by Weekday.
// The array type guarantees exactly seven entries; an entry that was never
// configured is zero-valued and fails validation.
type BusinessCalendar [DaysInWeek]DayHours

// HoursFor returns the opening hours for the weekday of date
func (c BusinessCalendar) HoursFor(date time.Time) (DayHours, error) {
	weekday := WeekdayOf(date)
	hours := c[weekday]
	if err := hours.Validate(); err != nil {
		return DayHours{}, NewConfigurationError("business_hours."+weekday.String(), "%v", err)
	}
	return hours, nil
}

// Validate checks every weekday entry
func (c BusinessCalendar) Validate() error {
	for i, hours := range c {
		if err := hours.Validate(); err != nil {
			return NewConfigurationError("business_hours."+Weekday(i).String(), "%v", err)
		}
	}
	return nil
}

// With returns a copy of the calendar with one weekday replaced
func (c BusinessCalendar) With(weekday Weekday, hours DayHours) BusinessCalendar {
	c[weekday] = hours
	return c
}
