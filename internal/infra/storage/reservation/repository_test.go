package reservation

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), db, mock
}

func reservationRow(id int64, status string) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		id,
		int64(3),
		nil,
		time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		"19:00:00",
		90,
		4,
		status,
		"Anna",
		"+79990000000",
		nil,
		nil,
		"key-1",
		nil,
		nil,
		nil,
		now,
		now,
	)
}

func newReservation() *domain.Reservation {
	return &domain.Reservation{
		TableID:         ptr.Ptr(int64(3)),
		Date:            time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		StartTime:       "19:00",
		DurationMinutes: 90,
		PartySize:       4,
		Status:          domain.StatusConfirmed,
		ContactName:     "Anna",
		ContactPhone:    "+79990000000",
		IdempotencyKey:  ptr.Ptr("key-1"),
	}
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		now := time.Now()
		mock.ExpectQuery("INSERT INTO reservations").
			WithArgs(int64(3), nil, "2025-06-09", "19:00", 90, 4, "confirmed", "Anna", "+79990000000", nil, nil, "key-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

		created, err := repo.Create(ctx, newReservation())
		require.NoError(t, err)
		assert.Equal(t, int64(11), created.ID)
		assert.Equal(t, now, created.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{"duplicateKey", &pq.Error{Code: "23505", Constraint: idempotencyKeyConstraint}, ErrDuplicateIdempotencyKey},
		{"overlap", &pq.Error{Code: "23P01", Constraint: "reservations_confirmed_no_overlap"}, ErrOverlap},
		{"serialization", &pq.Error{Code: "40001"}, ErrConflict},
		{"deadlock", &pq.Error{Code: "40P01"}, ErrConflict},
		{"other", errors.New("connection reset"), ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newRepo(t)
			mock.ExpectQuery("INSERT INTO reservations").WillReturnError(tt.dbErr)

			_, err := repo.Create(ctx, newReservation())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("withoutTransaction", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(`SELECT .* FROM reservations WHERE id = \$1$`).
			WithArgs(int64(5)).
			WillReturnRows(reservationRow(5, "confirmed"))

		got, err := repo.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
		assert.Equal(t, domain.StatusConfirmed, got.Status)
		assert.Equal(t, "19:00", got.StartTime.String())
		assert.Equal(t, int64(3), *got.TableID)
		assert.Nil(t, got.UserID)
		assert.Nil(t, got.ContactEmail)
		assert.Equal(t, "key-1", *got.IdempotencyKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("locksRowInsideTransaction", func(t *testing.T) {
		repo, db, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM reservations WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(5)).
			WillReturnRows(reservationRow(5, "pending"))

		tx, err := dbmetrics.Wrap(db, nil).BeginTx(ctx, nil)
		require.NoError(t, err)

		got, err := repo.GetByID(dbmetrics.WithTx(ctx, tx), 5)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("notFound", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery("SELECT .* FROM reservations").WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetByID(ctx, 5)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("unknownStatusRejected", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery("SELECT .* FROM reservations").WillReturnRows(reservationRow(5, "seated"))

		_, err := repo.GetByID(ctx, 5)
		assert.ErrorIs(t, err, ErrScanRow)
	})
}

func TestRepository_GetConfirmedByDate(t *testing.T) {
	repo, _, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE reservation_date = $1 AND status = $2 ORDER BY table_id ASC, start_time ASC")).
		WithArgs("2025-06-09", "confirmed").
		WillReturnRows(reservationRow(1, "confirmed").AddRow(
			int64(2), int64(4), int64(77), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), "20:00:00", 90, 2,
			"confirmed", "Ivan", "+70000000000", "ivan@example.com", "window seat", nil, nil, nil, nil,
			time.Now(), time.Now(),
		))

	got, err := repo.GetConfirmedByDate(context.Background(), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(77), *got[1].UserID)
	assert.Equal(t, "ivan@example.com", *got[1].ContactEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, _, mock := newRepo(t)
	day := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE reservation_date = $1 AND user_id = $2 AND status IN ($3,$4) ORDER BY start_time ASC, id ASC")).
		WithArgs("2025-06-09", int64(77), "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.List(context.Background(), domain.ReservationsFilter{
		Date:     &day,
		UserID:   ptr.Ptr(int64(77)),
		Statuses: []domain.ReservationStatus{domain.StatusPending, domain.StatusConfirmed},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetEndedConfirmed(t *testing.T) {
	repo, _, mock := newRepo(t)
	moscow := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2025, 6, 9, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND ends_at <= $2 ORDER BY ends_at ASC, id ASC LIMIT 100")).
		WithArgs("confirmed", "2025-06-09 21:00:00").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetEndedConfirmed(context.Background(), now, moscow, 100)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	cancelledAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		reservation := newReservation()
		reservation.ID = 11
		require.NoError(t, reservation.MarkCancelled(domain.EventCancel, domain.RoleCustomer, ptr.Ptr("plans changed"), cancelledAt))

		mock.ExpectQuery("UPDATE reservations SET").
			WithArgs("cancelled", int64(3), "plans changed", "customer", cancelledAt, int64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(cancelledAt))

		require.NoError(t, repo.Update(ctx, reservation))
		assert.Equal(t, cancelledAt, reservation.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("notFound", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery("UPDATE reservations SET").WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

		assert.ErrorIs(t, repo.Update(ctx, newReservation()), ErrReservationNotFound)
	})

	t.Run("overlapOnConfirm", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery("UPDATE reservations SET").WillReturnError(&pq.Error{Code: "23P01"})

		assert.ErrorIs(t, repo.Update(ctx, newReservation()), ErrOverlap)
	})
}

func TestRepository_LockTableDay(t *testing.T) {
	repo, _, mock := newRepo(t)
	day := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("table:3:2025-06-09").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockTableDay(context.Background(), 3, day))
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec("pg_advisory_xact_lock").WillReturnError(&pq.Error{Code: "40P01"})
	assert.ErrorIs(t, repo.LockTableDay(context.Background(), 3, day), ErrConflict)
}
