package get_day_status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type fakeSettings struct {
	calendar domain.BusinessCalendar
	policy   domain.ReservationPolicy
}

func (s *fakeSettings) Matcher(ctx context.Context) (*availability.Matcher, error) {
	return availability.NewMatcher(s.calendar, s.policy, time.UTC), nil
}

func newSettings() *fakeSettings {
	var calendar domain.BusinessCalendar
	for i := range calendar {
		calendar[i] = domain.DayHours{Open: "11:00", Close: "22:00"}
	}
	calendar[domain.Sunday] = domain.DayHours{Closed: true}
	calendar[domain.Saturday] = domain.DayHours{Open: "11:00", Close: "12:00"}
	return &fakeSettings{calendar: calendar, policy: domain.DefaultPolicy()}
}

func TestUseCase_Execute(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		date      time.Time
		status    availability.DayStatus
		firstSlot string
		lastSlot  string
		inWindow  bool
	}{
		{name: "open", date: day(9), status: availability.DayOpen, firstSlot: "11:00", lastSlot: "20:30", inWindow: true},
		{name: "closed", date: day(8), status: availability.DayClosed, inWindow: true},
		{name: "noFit", date: day(7), status: availability.DayNoFit, inWindow: true},
		{name: "past", date: day(2), status: availability.DayOpen, firstSlot: "11:00", lastSlot: "20:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(newSettings(), logger.NewNop())
			uc.timeProvider = fixedTime{now: now}

			resp, err := uc.Execute(context.Background(), &Request{Date: tt.date})
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.inWindow, resp.InWindow)
			if tt.status == availability.DayClosed {
				assert.Nil(t, resp.Open)
				assert.Nil(t, resp.Close)
			} else {
				require.NotNil(t, resp.Open)
				assert.Equal(t, types.TimeString("11:00"), *resp.Open)
			}
			if tt.firstSlot == "" {
				assert.Nil(t, resp.FirstSlot)
				return
			}
			assert.Equal(t, tt.firstSlot, resp.FirstSlot.String())
			assert.Equal(t, tt.lastSlot, resp.LastSlot.String())
		})
	}

	t.Run("unconfiguredDay", func(t *testing.T) {
		settings := newSettings()
		settings.calendar[domain.Monday] = domain.DayHours{}
		uc := NewUseCase(settings, logger.NewNop())

		_, err := uc.Execute(context.Background(), &Request{Date: day(9)})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("missingDate", func(t *testing.T) {
		uc := NewUseCase(newSettings(), logger.NewNop())

		_, err := uc.Execute(context.Background(), &Request{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
