package availability

import (
	"slices"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// scenarioPolicy max_days=30, min_hours=2, interval=30, duration=90
func scenarioPolicy() domain.ReservationPolicy {
	return domain.ReservationPolicy{
		MaxDaysInAdvance:        30,
		MinHoursInAdvance:       2,
		TimeSlotIntervalMinutes: 30,
		DefaultDurationMinutes:  90,
	}
}

// scenarioCalendar 11:00-22:00 every day, Sunday closed
func scenarioCalendar() domain.BusinessCalendar {
	var calendar domain.BusinessCalendar
	for i := range calendar {
		calendar[i] = domain.DayHours{Open: "11:00", Close: "22:00"}
	}
	calendar[domain.Sunday] = domain.DayHours{Closed: true}
	return calendar
}

// thursdayNoon 2025-06-05 12:00 UTC, so next Monday is 2025-06-09
var thursdayNoon = time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func tables(capacities ...int) []*domain.Table {
	result := make([]*domain.Table, 0, len(capacities))
	for i, capacity := range capacities {
		result = append(result, &domain.Table{ID: int64(i + 1), Capacity: capacity, Active: true})
	}
	return result
}

func confirmedOn(tableID int64, day string, start types.TimeString, duration int) *domain.Reservation {
	return &domain.Reservation{
		TableID:         ptr.Ptr(tableID),
		Date:            date(day),
		StartTime:       start,
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
	}
}

func collect(gen *SlotGenerator, day time.Time) ([]types.TimeString, DayStatus, error) {
	seq, status, err := gen.Slots(day)
	if err != nil {
		return nil, "", err
	}
	return slices.Collect(seq), status, nil
}
