package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/pgerrors"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const (
	tableName = "reservations"

	// idempotencyKeyConstraint имя UNIQUE ограничения на idempotency_key
	idempotencyKeyConstraint = "reservations_idempotency_key_key"

	// wallClockLayout формат для сравнения с колонками TIMESTAMP (без часового пояса)
	wallClockLayout = "2006-01-02 15:04:05"
)

var columns = []string{
	"id",
	"table_id",
	"user_id",
	"reservation_date",
	"start_time",
	"duration_minutes",
	"party_size",
	"status",
	"contact_name",
	"contact_phone",
	"contact_email",
	"notes",
	"idempotency_key",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование.
// Если в контексте передана активная транзакция, использует её.
// Ошибки PostgreSQL переводятся в ErrDuplicateIdempotencyKey, ErrOverlap и ErrConflict.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"table_id",
			"user_id",
			"reservation_date",
			"start_time",
			"duration_minutes",
			"party_size",
			"status",
			"contact_name",
			"contact_phone",
			"contact_email",
			"notes",
			"idempotency_key",
		).
		Values(
			reservation.TableID,
			reservation.UserID,
			reservation.Date.Format(domain.DateFormat),
			reservation.StartTime,
			reservation.DurationMinutes,
			reservation.PartySize,
			reservation.Status,
			reservation.ContactName,
			reservation.ContactPhone,
			reservation.ContactEmail,
			reservation.Notes,
			reservation.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", classify(err), err)
	}

	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	return reservation, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.getOne(ctx, "GetByID", builder)
}

// GetByIdempotencyKey получает бронирование по ключу идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error) {
	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"idempotency_key": key})

	return r.getOne(ctx, "GetByIdempotencyKey", builder)
}

// GetConfirmedByDate получает подтверждённые бронирования всех столов на дату (журнал занятости)
func (r *Repository) GetConfirmedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"reservation_date": date.Format(domain.DateFormat),
			"status":           domain.StatusConfirmed,
		}).
		OrderBy("table_id ASC", "start_time ASC")

	return r.getMany(ctx, "GetConfirmedByDate", builder)
}

// GetConfirmedByTableAndDate получает подтверждённые бронирования стола на дату.
// В SERIALIZABLE чтение идёт из снимка, снятого первым запросом транзакции:
// брони, зафиксированные позже, оно не видит даже после LockTableDay.
// Такие гонки ловят serialization failure (40001) и exclusion constraint (23P01).
func (r *Repository) GetConfirmedByTableAndDate(ctx context.Context, tableID int64, date time.Time) ([]*domain.Reservation, error) {
	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"table_id":         tableID,
			"reservation_date": date.Format(domain.DateFormat),
			"status":           domain.StatusConfirmed,
		}).
		OrderBy("start_time ASC")

	return r.getMany(ctx, "GetConfirmedByTableAndDate", builder)
}

// List получает бронирования по фильтру
func (r *Repository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	builder := psqlbuilder.Select(columns...).From(tableName)

	if filter.Date != nil {
		builder = builder.Where(squirrel.Eq{"reservation_date": filter.Date.Format(domain.DateFormat)})
	}
	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.TableID != nil {
		builder = builder.Where(squirrel.Eq{"table_id": *filter.TableID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}

	// Для одной даты - по времени, иначе сначала новые
	if filter.Date != nil {
		builder = builder.OrderBy("start_time ASC", "id ASC")
	} else {
		builder = builder.OrderBy("reservation_date DESC", "start_time DESC", "id DESC")
	}

	return r.getMany(ctx, "List", builder)
}

// GetEndedConfirmed получает подтверждённые бронирования, закончившиеся к моменту now.
// now переводится в местное время ресторана, т.к. starts_at/ends_at хранятся без часового пояса.
func (r *Repository) GetEndedConfirmed(ctx context.Context, now time.Time, loc *time.Location, limit uint64) ([]*domain.Reservation, error) {
	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.LtOrEq{"ends_at": now.In(loc).Format(wallClockLayout)}).
		OrderBy("ends_at ASC", "id ASC").
		Limit(limit)

	// Строки, занятые параллельной отменой, пропускаются до следующего прохода
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	return r.getMany(ctx, "GetEndedConfirmed", builder)
}

// Update сохраняет изменение статуса, стола и полей отмены
func (r *Repository) Update(ctx context.Context, reservation *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var cancelledBy *string
	if reservation.CancelledBy != nil {
		role := string(*reservation.CancelledBy)
		cancelledBy = &role
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", reservation.Status).
		Set("table_id", reservation.TableID).
		Set("cancellation_reason", reservation.CancellationReason).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", reservation.CancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": reservation.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", classify(err), err)
	}

	reservation.UpdatedAt = updatedAt.Time
	return nil
}

// LockTableDay берёт транзакционную advisory-блокировку на пару (стол, дата).
// Блокировка снимается при завершении транзакции; вне транзакции вызов бессмысленен.
func (r *Repository) LockTableDay(ctx context.Context, tableID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	_, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", LockKey(tableID, date))
	if err != nil {
		return fmt.Errorf("%w: LockTableDay - execute lock: %v", classify(err), err)
	}
	return nil
}

// LockKey ключ advisory-блокировки для пары (стол, дата)
func LockKey(tableID int64, date time.Time) string {
	return fmt.Sprintf("table:%d:%s", tableID, date.Format(domain.DateFormat))
}

func (r *Repository) getOne(ctx context.Context, op string, builder squirrel.SelectBuilder) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %v", ErrScanRow, op, err)
	}
	return reservation, nil
}

func (r *Repository) getMany(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", classify(err), op, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan reservation: %v", ErrScanRow, op, err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return reservations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		reservation          domain.Reservation
		tableID, userID      sql.NullInt64
		cancelledBy          sql.NullString
		cancelledAt          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&reservation.ID,
		&tableID,
		&userID,
		&reservation.Date,
		&reservation.StartTime,
		&reservation.DurationMinutes,
		&reservation.PartySize,
		&reservation.Status,
		&reservation.ContactName,
		&reservation.ContactPhone,
		&reservation.ContactEmail,
		&reservation.Notes,
		&reservation.IdempotencyKey,
		&reservation.CancellationReason,
		&cancelledBy,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tableID.Valid {
		reservation.TableID = &tableID.Int64
	}
	if userID.Valid {
		reservation.UserID = &userID.Int64
	}
	if cancelledBy.Valid {
		role := domain.ActorRole(cancelledBy.String)
		reservation.CancelledBy = &role
	}
	if cancelledAt.Valid {
		reservation.CancelledAt = &cancelledAt.Time
	}
	reservation.Date = domain.DateOf(reservation.Date)
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	return &reservation, nil
}

// classify выбирает sentinel-ошибку по коду ошибки PostgreSQL
func classify(err error) error {
	switch {
	case pgerrors.IsUniqueViolation(err, idempotencyKeyConstraint):
		return ErrDuplicateIdempotencyKey
	case pgerrors.IsExclusionViolation(err):
		return ErrOverlap
	case pgerrors.IsRetryable(err):
		return ErrConflict
	default:
		return ErrExecQuery
	}
}
