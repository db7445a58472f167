package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfWindow the requested date/time is outside the advance booking window
	ErrOutOfWindow = errors.New("reservation: requested time is outside the booking window")

	// ErrInvalidSlot the requested time is not one of the generated slots for the date
	ErrInvalidSlot = errors.New("reservation: requested time is not a bookable slot")

	// ErrFullyBooked no table can seat the party for the requested window
	ErrFullyBooked = errors.New("reservation: no table available for the requested window")

	// ErrSlotTaken a concurrent booking took the table between check and commit
	ErrSlotTaken = errors.New("reservation: slot was taken by a concurrent booking")

	// ErrInvalidTransition the event is not allowed from the current status
	ErrInvalidTransition = errors.New("reservation: invalid status transition")

	// ErrCancellationWindowPassed a confirmed reservation is too close to its start to be cancelled
	ErrCancellationWindowPassed = errors.New("reservation: cancellation window has passed")

	// ErrConfiguration business hours or policy are inconsistent; booking is blocked until fixed
	ErrConfiguration = errors.New("reservation: configuration error")

	// ErrUnknownStatus a status value outside the closed set
	ErrUnknownStatus = errors.New("reservation: unknown status")

	// ErrUnknownEvent an event value outside the closed set
	ErrUnknownEvent = errors.New("reservation: unknown event")
)

// ConfigurationError describes which setting is inconsistent.
// errors.Is(err, ErrConfiguration) matches it.
type ConfigurationError struct {
	Setting string
	Reason  string
}

// NewConfigurationError creates a ConfigurationError
func NewConfigurationError(setting, format string, v ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		Setting: setting,
		Reason:  fmt.Sprintf(format, v...),
	}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration.Error(), e.Setting, e.Reason)
}

// Is makes the error match ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
