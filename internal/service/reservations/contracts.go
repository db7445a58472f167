package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	GetEndedConfirmed(ctx context.Context, now time.Time, loc *time.Location, limit uint64) ([]*domain.Reservation, error)
	LockTableDay(ctx context.Context, tableID int64, date time.Time) error
	Update(ctx context.Context, reservation *domain.Reservation) error
}

// SettingsProvider текущая политика и часовой пояс ресторана
type SettingsProvider interface {
	Policy(ctx context.Context) (domain.ReservationPolicy, error)
	Location() *time.Location
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчик переходов статуса
type Metrics interface {
	IncReservationTransition(event string)
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
