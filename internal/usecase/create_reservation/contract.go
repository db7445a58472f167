package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error)
	GetConfirmedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
	GetConfirmedByTableAndDate(ctx context.Context, tableID int64, date time.Time) ([]*domain.Reservation, error)
	LockTableDay(ctx context.Context, tableID int64, date time.Time) error
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	ListActive(ctx context.Context) ([]*domain.Table, error)
}

// SettingsProvider собирает matcher на текущих политике и календаре
type SettingsProvider interface {
	Matcher(ctx context.Context) (*availability.Matcher, error)
}

// IdempotencyStore быстрый кэш ключей идемпотентности (Redis).
// Источник истины - UNIQUE колонка idempotency_key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (int64, bool, error)
	Remember(ctx context.Context, key string, reservationID int64) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetContactWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.Contact, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики бронирований
type Metrics interface {
	IncReservationCreated(status string)
	IncReservationRejected(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
