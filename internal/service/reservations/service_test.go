package reservations

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var (
	monday       = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	thursdayNoon = time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	staff    = domain.Actor{UserID: 1, Role: domain.RoleStaff}
	owner    = domain.Actor{UserID: 42, Role: domain.RoleCustomer}
	stranger = domain.Actor{UserID: 77, Role: domain.RoleCustomer}
)

func confirmedAt(id int64, start types.TimeString) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		TableID:         ptr.Ptr(int64(1)),
		UserID:          ptr.Ptr(owner.UserID),
		Date:            monday,
		StartTime:       start,
		DurationMinutes: 90,
		PartySize:       2,
		Status:          domain.StatusConfirmed,
		ContactName:     "Анна",
		ContactPhone:    "+79990000000",
	}
}

func withStatus(r *domain.Reservation, status domain.ReservationStatus) *domain.Reservation {
	r.Status = status
	return r
}

type fixture struct {
	repo    *fakeRepo
	tx      *fakeTxManager
	metrics *fakeMetrics
	service *Service
}

func newFixture(now time.Time, reservations ...*domain.Reservation) *fixture {
	f := &fixture{
		repo:    newFakeRepo(reservations...),
		tx:      &fakeTxManager{},
		metrics: &fakeMetrics{},
	}
	f.service = NewService(f.repo, &fakeSettings{policy: domain.DefaultPolicy()}, f.tx, f.metrics, logger.NewNop())
	f.service.timeProvider = fixedTime{now: now}
	return f
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	reason := ptr.Ptr("планы изменились")

	t.Run("ownerCancelsConfirmed", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))

		resp, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner, Reason: reason})
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		assert.Equal(t, "customer", *resp.CancelledBy)
		assert.Equal(t, reason, resp.CancellationReason)
		require.NotNil(t, resp.CancelledAt)
		assert.Equal(t, thursdayNoon.Format(time.RFC3339), *resp.CancelledAt)

		stored := f.repo.reservations[10]
		assert.Equal(t, domain.StatusCancelled, stored.Status)
		assert.Equal(t, []string{"table:1:2025-06-09"}, f.repo.locked)
		assert.Equal(t, 1, f.metrics.transitions["cancel"])
	})

	t.Run("scenarioD", func(t *testing.T) {
		// За час до начала при min_hours_in_advance = 2
		now := time.Date(2025, 6, 9, 18, 0, 0, 0, time.UTC)
		f := newFixture(now, confirmedAt(10, "19:00"))

		_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
		assert.ErrorIs(t, err, domain.ErrCancellationWindowPassed)
		assert.Equal(t, domain.StatusConfirmed, f.repo.reservations[10].Status)
		assert.Empty(t, f.metrics.transitions)
	})

	t.Run("deadlineIsInclusive", func(t *testing.T) {
		now := time.Date(2025, 6, 9, 17, 0, 0, 0, time.UTC)
		f := newFixture(now, confirmedAt(10, "19:00"))

		_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
		assert.NoError(t, err)
	})

	t.Run("pendingCancellableAnyTime", func(t *testing.T) {
		now := time.Date(2025, 6, 9, 18, 45, 0, 0, time.UTC)
		f := newFixture(now, withStatus(confirmedAt(10, "19:00"), domain.StatusPending))

		resp, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	})

	t.Run("terminalStatesRejected", func(t *testing.T) {
		for _, status := range []domain.ReservationStatus{domain.StatusCancelled, domain.StatusCompleted} {
			t.Run(string(status), func(t *testing.T) {
				f := newFixture(thursdayNoon, withStatus(confirmedAt(10, "19:00"), status))

				_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: staff})
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			})
		}
	})

	t.Run("strangerDenied", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))

		_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: stranger})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, domain.StatusConfirmed, f.repo.reservations[10].Status)
	})

	t.Run("guestReservationOnlyByStaff", func(t *testing.T) {
		guest := confirmedAt(10, "19:00")
		guest.UserID = nil
		f := newFixture(thursdayNoon, guest)

		_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
		assert.ErrorIs(t, err, ErrAccessDenied)

		resp, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: staff})
		require.NoError(t, err)
		assert.Equal(t, "staff", *resp.CancelledBy)
	})

	t.Run("notFound", func(t *testing.T) {
		f := newFixture(thursdayNoon)

		_, err := f.service.Cancel(ctx, 99, &models.CancelRequest{Actor: staff})
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("invalidID", func(t *testing.T) {
		f := newFixture(thursdayNoon)

		_, err := f.service.Cancel(ctx, 0, &models.CancelRequest{Actor: staff})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("concurrentUpdate", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))
		f.tx.commitErr = fmt.Errorf("%w: could not serialize access", txmanager.ErrConflict)

		_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("repositoryConflictOnUpdate", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))
		f.repo.updateErr = fmt.Errorf("%w: update", reservationRepo.ErrConflict)

		_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("storageFailure", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))
		f.repo.updateErr = fmt.Errorf("%w: update", reservationRepo.ErrExecQuery)

		_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("policyUnavailable", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))
		f.service.settings = &fakeSettings{policyErr: errors.New("db down")}

		_, err := f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_CancelFreesSlot(t *testing.T) {
	ctx := context.Background()

	var calendar domain.BusinessCalendar
	for i := range calendar {
		calendar[i] = domain.DayHours{Open: "11:00", Close: "22:00"}
	}
	matcher := availability.NewMatcher(calendar, domain.DefaultPolicy(), time.UTC)
	tables := []*domain.Table{{ID: 1, Capacity: 4, Active: true}}

	f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))

	before, _, err := matcher.Available(thursdayNoon, monday, 2, tables, f.repo.confirmed())
	require.NoError(t, err)
	assert.NotContains(t, before, types.TimeString("19:00"))
	assert.NotContains(t, before, types.TimeString("18:00"))

	_, err = f.service.Cancel(ctx, 10, &models.CancelRequest{Actor: owner})
	require.NoError(t, err)

	after, _, err := matcher.Available(thursdayNoon, monday, 2, tables, f.repo.confirmed())
	require.NoError(t, err)
	assert.Contains(t, after, types.TimeString("19:00"))
	assert.Contains(t, after, types.TimeString("18:00"))
	assert.Len(t, after, 20)
}

func TestService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("staffRejectsPending", func(t *testing.T) {
		f := newFixture(thursdayNoon, withStatus(confirmedAt(10, "19:00"), domain.StatusPending))

		resp, err := f.service.Reject(ctx, 10, &models.CancelRequest{Actor: staff, Reason: ptr.Ptr("нет мест")})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		assert.Equal(t, "staff", *resp.CancelledBy)
		assert.Equal(t, 1, f.metrics.transitions["reject"])
	})

	t.Run("confirmedCannotBeRejected", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))

		_, err := f.service.Reject(ctx, 10, &models.CancelRequest{Actor: staff})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("customerDenied", func(t *testing.T) {
		f := newFixture(thursdayNoon, withStatus(confirmedAt(10, "19:00"), domain.StatusPending))

		_, err := f.service.Reject(ctx, 10, &models.CancelRequest{Actor: owner})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, 0, f.tx.calls)
	})
}

func TestService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("staffCompletesConfirmed", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))

		resp, err := f.service.Complete(ctx, 10, staff)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCompleted), resp.Status)
		assert.Equal(t, 1, f.metrics.transitions["complete"])
	})

	t.Run("pendingCannotBeCompleted", func(t *testing.T) {
		f := newFixture(thursdayNoon, withStatus(confirmedAt(10, "19:00"), domain.StatusPending))

		_, err := f.service.Complete(ctx, 10, staff)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("customerDenied", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))

		_, err := f.service.Complete(ctx, 10, owner)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_CompleteEnded(t *testing.T) {
	ctx := context.Background()

	t.Run("completesInBatches", func(t *testing.T) {
		// 150 закончившихся броней до понедельника 21:00, одна будущая и одна ожидающая
		var reservations []*domain.Reservation
		for i := int64(1); i <= 150; i++ {
			reservations = append(reservations, confirmedAt(i, "11:00"))
		}
		reservations = append(reservations, confirmedAt(151, "20:30"))
		reservations = append(reservations, withStatus(confirmedAt(152, "11:00"), domain.StatusPending))

		now := time.Date(2025, 6, 9, 21, 0, 0, 0, time.UTC)
		f := newFixture(now, reservations...)

		resp, err := f.service.CompleteEnded(ctx)
		require.NoError(t, err)

		assert.Equal(t, 150, resp.Completed)
		assert.Equal(t, 2, f.tx.calls)
		assert.Equal(t, 150, f.metrics.transitions["complete"])
		assert.Equal(t, domain.StatusCompleted, f.repo.reservations[1].Status)
		assert.Equal(t, domain.StatusCompleted, f.repo.reservations[150].Status)
		assert.Equal(t, domain.StatusConfirmed, f.repo.reservations[151].Status)
		assert.Equal(t, domain.StatusPending, f.repo.reservations[152].Status)
	})

	t.Run("endBoundaryCounts", func(t *testing.T) {
		// 19:00 + 90 минут = 20:30
		now := time.Date(2025, 6, 9, 20, 30, 0, 0, time.UTC)
		f := newFixture(now, confirmedAt(10, "19:00"))

		resp, err := f.service.CompleteEnded(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Completed)
	})

	t.Run("nothingToComplete", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))

		resp, err := f.service.CompleteEnded(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Completed)
		assert.Equal(t, 1, f.tx.calls)
	})

	t.Run("updateFailureStops", func(t *testing.T) {
		now := time.Date(2025, 6, 9, 21, 0, 0, 0, time.UTC)
		f := newFixture(now, confirmedAt(10, "11:00"))
		f.repo.updateErr = fmt.Errorf("%w: update", reservationRepo.ErrExecQuery)

		resp, err := f.service.CompleteEnded(ctx)
		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, 0, resp.Completed)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(thursdayNoon, confirmedAt(10, "19:00"))

	resp, err := f.service.GetByID(ctx, 10, owner)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-09", resp.Date)
	assert.Equal(t, "19:00", resp.StartTime)
	assert.Equal(t, "20:30", resp.EndTime)

	_, err = f.service.GetByID(ctx, 10, staff)
	assert.NoError(t, err)

	_, err = f.service.GetByID(ctx, 10, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.GetByID(ctx, 11, staff)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_Lists(t *testing.T) {
	ctx := context.Background()

	other := confirmedAt(11, "12:00")
	other.UserID = ptr.Ptr(stranger.UserID)

	t.Run("byDateStaffOnly", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"), other)

		resp, err := f.service.ListByDate(ctx, &models.ListByDateRequest{Actor: staff, Date: monday, Status: ptr.Ptr("confirmed")})
		require.NoError(t, err)
		assert.Len(t, resp.Reservations, 2)
		assert.Equal(t, []domain.ReservationStatus{domain.StatusConfirmed}, f.repo.lastFilter.Statuses)
		require.NotNil(t, f.repo.lastFilter.Date)
		assert.True(t, monday.Equal(*f.repo.lastFilter.Date))

		_, err = f.service.ListByDate(ctx, &models.ListByDateRequest{Actor: owner, Date: monday})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("byUserOwnerOrStaff", func(t *testing.T) {
		f := newFixture(thursdayNoon, confirmedAt(10, "19:00"), other)

		resp, err := f.service.ListByUser(ctx, &models.ListByUserRequest{Actor: owner, UserID: owner.UserID})
		require.NoError(t, err)
		require.Len(t, resp.Reservations, 1)
		assert.Equal(t, int64(10), resp.Reservations[0].ID)

		_, err = f.service.ListByUser(ctx, &models.ListByUserRequest{Actor: staff, UserID: owner.UserID})
		assert.NoError(t, err)

		_, err = f.service.ListByUser(ctx, &models.ListByUserRequest{Actor: stranger, UserID: owner.UserID})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalidStatusFilter", func(t *testing.T) {
		f := newFixture(thursdayNoon)

		_, err := f.service.ListByUser(ctx, &models.ListByUserRequest{Actor: owner, UserID: owner.UserID, Status: ptr.Ptr("lost")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("emptyListIsNotNil", func(t *testing.T) {
		f := newFixture(thursdayNoon)

		resp, err := f.service.ListByDate(ctx, &models.ListByDateRequest{Actor: staff, Date: monday})
		require.NoError(t, err)
		assert.NotNil(t, resp.Reservations)
		assert.Empty(t, resp.Reservations)
	})

	t.Run("repositoryError", func(t *testing.T) {
		f := newFixture(thursdayNoon)
		f.repo.listErr = errors.New("db down")

		_, err := f.service.ListByDate(ctx, &models.ListByDateRequest{Actor: staff, Date: monday})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
