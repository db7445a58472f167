package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const (
	policyTable = "reservation_policy"
	hoursTable  = "business_hours"

	// policyRowID политика ресторана хранится одной строкой
	policyRowID = 1
)

// Repository репозиторий настроек ресторана: политика бронирования и часы работы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPolicy получает политику бронирования
func (r *Repository) GetPolicy(ctx context.Context) (*domain.ReservationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"max_days_in_advance",
		"min_hours_in_advance",
		"time_slot_interval_minutes",
		"default_duration_minutes",
		"updated_at",
	).
		From(policyTable).
		Where(squirrel.Eq{"id": policyRowID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicy - build select query: %v", ErrBuildQuery, err)
	}

	var policy domain.ReservationPolicy
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.MaxDaysInAdvance,
		&policy.MinHoursInAdvance,
		&policy.TimeSlotIntervalMinutes,
		&policy.DefaultDurationMinutes,
		&policy.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicy - scan policy: %v", ErrScanRow, err)
	}

	return &policy, nil
}

// SavePolicy создаёт или обновляет политику бронирования
func (r *Repository) SavePolicy(ctx context.Context, policy *domain.ReservationPolicy) (*domain.ReservationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(policyTable).
		Columns(
			"id",
			"max_days_in_advance",
			"min_hours_in_advance",
			"time_slot_interval_minutes",
			"default_duration_minutes",
		).
		Values(
			policyRowID,
			policy.MaxDaysInAdvance,
			policy.MinHoursInAdvance,
			policy.TimeSlotIntervalMinutes,
			policy.DefaultDurationMinutes,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			max_days_in_advance = EXCLUDED.max_days_in_advance,
			min_hours_in_advance = EXCLUDED.min_hours_in_advance,
			time_slot_interval_minutes = EXCLUDED.time_slot_interval_minutes,
			default_duration_minutes = EXCLUDED.default_duration_minutes,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SavePolicy - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&policy.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: SavePolicy - execute upsert: %v", ErrExecQuery, err)
	}

	return policy, nil
}

// GetCalendar получает недельный календарь.
// Дни без строки в таблице остаются пустыми и не проходят валидацию календаря.
func (r *Repository) GetCalendar(ctx context.Context) (domain.BusinessCalendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var calendar domain.BusinessCalendar

	query, args, err := psqlbuilder.Select("weekday", "open_time", "close_time", "is_closed").
		From(hoursTable).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return calendar, fmt.Errorf("%w: GetCalendar - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return calendar, fmt.Errorf("%w: GetCalendar - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			weekday         int
			openAt, closeAt types.TimeString
			closed          bool
		)
		if err := rows.Scan(&weekday, &openAt, &closeAt, &closed); err != nil {
			return calendar, fmt.Errorf("%w: GetCalendar - scan hours: %v", ErrScanRow, err)
		}
		day := domain.Weekday(weekday)
		if !day.IsValid() {
			return calendar, fmt.Errorf("%w: GetCalendar - weekday %d out of range", ErrScanRow, weekday)
		}
		calendar[day] = domain.DayHours{Open: openAt, Close: closeAt, Closed: closed}
	}

	if err := rows.Err(); err != nil {
		return calendar, fmt.Errorf("%w: GetCalendar - rows error: %v", ErrScanRow, err)
	}

	return calendar, nil
}

// SaveDayHours создаёт или обновляет часы работы одного дня недели
func (r *Repository) SaveDayHours(ctx context.Context, weekday domain.Weekday, hours domain.DayHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(hoursTable).
		Columns("weekday", "open_time", "close_time", "is_closed").
		Values(int(weekday), hours.Open, hours.Close, hours.Closed).
		Suffix(`ON CONFLICT (weekday) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			is_closed = EXCLUDED.is_closed,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SaveDayHours - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveDayHours - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}
