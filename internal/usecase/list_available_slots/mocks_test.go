package list_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type txKey struct{}

type fakeTxManager struct {
	calls int
	err   error
}

func (m *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(context.WithValue(ctx, txKey{}, m.calls))
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(int)
	return ok
}

type fakeReservationRepo struct {
	confirmed []*domain.Reservation
	err       error
	readInTx  bool
}

func (r *fakeReservationRepo) GetConfirmedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	r.readInTx = inTx(ctx)
	if r.err != nil {
		return nil, r.err
	}
	result := make([]*domain.Reservation, 0)
	for _, res := range r.confirmed {
		if res.Date.Equal(date) && res.Status == domain.StatusConfirmed {
			result = append(result, res)
		}
	}
	return result, nil
}

type fakeTableRepo struct {
	tables   []*domain.Table
	err      error
	readInTx bool
}

func (r *fakeTableRepo) ListActive(ctx context.Context) ([]*domain.Table, error) {
	r.readInTx = inTx(ctx)
	return r.tables, r.err
}

type fakeSettings struct {
	calendar domain.BusinessCalendar
	policy   domain.ReservationPolicy
}

func (s *fakeSettings) Matcher(ctx context.Context) (*availability.Matcher, error) {
	return availability.NewMatcher(s.calendar, s.policy, time.UTC), nil
}

func scenarioSettings() *fakeSettings {
	var calendar domain.BusinessCalendar
	for i := range calendar {
		calendar[i] = domain.DayHours{Open: "11:00", Close: "22:00"}
	}
	calendar[domain.Sunday] = domain.DayHours{Closed: true}

	return &fakeSettings{
		calendar: calendar,
		policy: domain.ReservationPolicy{
			MaxDaysInAdvance:        30,
			MinHoursInAdvance:       2,
			TimeSlotIntervalMinutes: 30,
			DefaultDurationMinutes:  90,
		},
	}
}

func tables(capacities ...int) []*domain.Table {
	result := make([]*domain.Table, 0, len(capacities))
	for i, capacity := range capacities {
		result = append(result, &domain.Table{ID: int64(i + 1), Capacity: capacity, Active: true})
	}
	return result
}

func confirmedOn(tableID int64, day time.Time, start types.TimeString) *domain.Reservation {
	return &domain.Reservation{
		TableID:         ptr.Ptr(tableID),
		Date:            day,
		StartTime:       start,
		DurationMinutes: 90,
		Status:          domain.StatusConfirmed,
	}
}
