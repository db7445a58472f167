package confirm_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetConfirmedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
	GetConfirmedByTableAndDate(ctx context.Context, tableID int64, date time.Time) ([]*domain.Reservation, error)
	LockTableDay(ctx context.Context, tableID int64, date time.Time) error
	Update(ctx context.Context, reservation *domain.Reservation) error
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	ListActive(ctx context.Context) ([]*domain.Table, error)
}

// SettingsProvider собирает matcher на текущих политике и календаре
type SettingsProvider interface {
	Matcher(ctx context.Context) (*availability.Matcher, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчик переходов статуса
type Metrics interface {
	IncReservationTransition(event string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
