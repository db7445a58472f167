package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Window half-open interval [Start, End) in minutes since midnight
type Window struct {
	Start int
	End   int
}

// NewWindow builds the window occupied by a reservation starting at start
func NewWindow(start types.TimeString, durationMinutes int) Window {
	begin := start.Minutes()
	return Window{Start: begin, End: begin + durationMinutes}
}

// Overlaps reports whether two windows intersect.
// A window ending exactly when the other starts does not overlap it.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("[%02d:%02d, %02d:%02d)", w.Start/60, w.Start%60, w.End/60, w.End%60)
}

// Reservation a table reservation
type Reservation struct {
	ID              int64
	TableID         *int64 // nil until a table is assigned
	UserID          *int64 // nil for guest reservations
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int // frozen from the policy at creation
	PartySize       int
	Status          ReservationStatus

	ContactName  string
	ContactPhone string
	ContactEmail *string
	Notes        *string

	IdempotencyKey *string

	CancellationReason *string
	CancelledBy        *ActorRole
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the occupied interval of the reservation
func (r *Reservation) Window() Window {
	return NewWindow(r.StartTime, r.DurationMinutes)
}

// StartsAt returns the start instant in the restaurant location
func (r *Reservation) StartsAt(loc *time.Location) time.Time {
	return r.StartTime.OnDate(r.Date, loc)
}

// EndsAt returns the end instant in the restaurant location
func (r *Reservation) EndsAt(loc *time.Location) time.Time {
	return r.StartsAt(loc).Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// IsOwnedBy reports whether the reservation was made by userID
func (r *Reservation) IsOwnedBy(userID int64) bool {
	return r.UserID != nil && *r.UserID == userID
}

// IsOnTable reports whether the reservation is assigned to tableID
func (r *Reservation) IsOnTable(tableID int64) bool {
	return r.TableID != nil && *r.TableID == tableID
}

// Conflicts reports whether r blocks the window on tableID
func (r *Reservation) Conflicts(tableID int64, window Window) bool {
	return r.Status.BlocksTable() && r.IsOnTable(tableID) && r.Window().Overlaps(window)
}

// CheckCancellable enforces the lead time for cancelling a confirmed reservation.
// A confirmed reservation can be cancelled while now <= start - minHours.
// Other statuses are not restricted here; Transition rejects terminal ones.
func (r *Reservation) CheckCancellable(now time.Time, loc *time.Location, minHoursInAdvance int) error {
	if r.Status != StatusConfirmed {
		return nil
	}
	deadline := r.StartsAt(loc).Add(-time.Duration(minHoursInAdvance) * time.Hour)
	if now.After(deadline) {
		return fmt.Errorf("%w: deadline was %s", ErrCancellationWindowPassed, deadline.Format(time.RFC3339))
	}
	return nil
}

// HasEnded reports whether the end instant has passed
func (r *Reservation) HasEnded(now time.Time, loc *time.Location) bool {
	return !now.Before(r.EndsAt(loc))
}

// Transition applies event to the reservation status
func (r *Reservation) Transition(event Event) error {
	next, err := r.Status.Apply(event)
	if err != nil {
		return err
	}
	r.Status = next
	return nil
}

// MarkCancelled applies a cancel or reject event and records who did it
func (r *Reservation) MarkCancelled(event Event, by ActorRole, reason *string, at time.Time) error {
	if event != EventCancel && event != EventReject {
		return fmt.Errorf("%w: %s is not a cancellation event", ErrInvalidTransition, event)
	}
	if err := r.Transition(event); err != nil {
		return err
	}
	r.CancelledBy = &by
	r.CancellationReason = reason
	r.CancelledAt = &at
	return nil
}

// ReservationsFilter filter for reservation listings
type ReservationsFilter struct {
	Date     *time.Time          // calendar date (optional)
	UserID   *int64              // owner (optional)
	TableID  *int64              // table (optional)
	Statuses []ReservationStatus // empty - any status
}

// DateOf returns the calendar date of t (in t's location) as midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD into midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
