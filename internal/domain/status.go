package domain

import (
	"database/sql/driver"
	"fmt"
	"slices"
)

// ReservationStatus lifecycle state of a reservation.
// The set is closed: values outside it are rejected when parsed or scanned.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Event a lifecycle event applied to a reservation
type Event string

const (
	EventConfirm  Event = "confirm"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
)

// transitions the only allowed status changes; terminal states have no entry
var transitions = map[ReservationStatus]map[Event]ReservationStatus{
	StatusPending: {
		EventConfirm: StatusConfirmed,
		EventReject:  StatusCancelled,
		EventCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		EventCancel:   StatusCancelled,
		EventComplete: StatusCompleted,
	},
}

// AllStatuses lists every status in lifecycle order
var AllStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
}

// ParseReservationStatus converts a string into a ReservationStatus
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsValid reports whether s belongs to the closed set
func (s ReservationStatus) IsValid() bool {
	return slices.Contains(AllStatuses, s)
}

// IsTerminal returns true for cancelled and completed
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// BlocksTable returns true if a reservation in this status occupies its table window
func (s ReservationStatus) BlocksTable() bool {
	return s == StatusConfirmed
}

// Apply returns the status reached by applying event, or ErrInvalidTransition
func (s ReservationStatus) Apply(event Event) (ReservationStatus, error) {
	if !event.IsValid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	next, ok := transitions[s][event]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s reservation", ErrInvalidTransition, event, s)
	}
	return next, nil
}

// Scan implements sql.Scanner
func (s *ReservationStatus) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrUnknownStatus, src)
	}

	status, err := ParseReservationStatus(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Value implements driver.Valuer
func (s ReservationStatus) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return string(s), nil
}

// IsValid reports whether e is a known event
func (e Event) IsValid() bool {
	switch e {
	case EventConfirm, EventReject, EventCancel, EventComplete:
		return true
	}
	return false
}
