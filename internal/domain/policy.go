package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationPolicy booking window and slot shape parameters.
// Restaurant-wide singleton, passed explicitly to the engine.
type ReservationPolicy struct {
	MaxDaysInAdvance        int
	MinHoursInAdvance       int
	TimeSlotIntervalMinutes int
	DefaultDurationMinutes  int
	UpdatedAt               time.Time
}

// DefaultPolicy returns the policy used before an administrator configures one
func DefaultPolicy() ReservationPolicy {
	return ReservationPolicy{
		MaxDaysInAdvance:        DefaultMaxDaysInAdvance,
		MinHoursInAdvance:       DefaultMinHoursInAdvance,
		TimeSlotIntervalMinutes: DefaultTimeSlotIntervalMinutes,
		DefaultDurationMinutes:  DefaultDurationMinutes,
	}
}

// MinLead returns MinHoursInAdvance as a duration
func (p ReservationPolicy) MinLead() time.Duration {
	return time.Duration(p.MinHoursInAdvance) * time.Hour
}

// Duration returns DefaultDurationMinutes as a duration
func (p ReservationPolicy) Duration() time.Duration {
	return time.Duration(p.DefaultDurationMinutes) * time.Minute
}

// Validate checks value ranges
func (p ReservationPolicy) Validate() error {
	switch {
	case p.MaxDaysInAdvance < 1 || p.MaxDaysInAdvance > MaxDaysInAdvanceLimit:
		return NewConfigurationError("max_days_in_advance", "must be in 1..%d, got %d",
			MaxDaysInAdvanceLimit, p.MaxDaysInAdvance)
	case p.MinHoursInAdvance < 0 || p.MinHoursInAdvance > MaxMinHoursInAdvance:
		return NewConfigurationError("min_hours_in_advance", "must be in 0..%d, got %d",
			MaxMinHoursInAdvance, p.MinHoursInAdvance)
	case p.TimeSlotIntervalMinutes < MinSlotIntervalMinutes || types.MinutesInDay%p.TimeSlotIntervalMinutes != 0:
		return NewConfigurationError("time_slot_interval", "must divide a day evenly and be at least %d, got %d",
			MinSlotIntervalMinutes, p.TimeSlotIntervalMinutes)
	case p.DefaultDurationMinutes < MinReservationDuration || p.DefaultDurationMinutes > MaxReservationDuration:
		return NewConfigurationError("default_reservation_duration", "must be in %d..%d, got %d",
			MinReservationDuration, MaxReservationDuration, p.DefaultDurationMinutes)
	}
	return nil
}

// ValidateAgainst checks that the default duration fits into every open day of the calendar
func (p ReservationPolicy) ValidateAgainst(calendar BusinessCalendar) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := calendar.Validate(); err != nil {
		return err
	}
	for i, hours := range calendar {
		if hours.Closed {
			continue
		}
		if p.DefaultDurationMinutes > hours.Length() {
			return NewConfigurationError("default_reservation_duration",
				"%d minutes does not fit into %s opening hours %s-%s",
				p.DefaultDurationMinutes, Weekday(i), hours.Open, hours.Close)
		}
	}
	return nil
}
