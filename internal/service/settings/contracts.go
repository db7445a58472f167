package settings

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек ресторана
type SettingsRepository interface {
	GetPolicy(ctx context.Context) (*domain.ReservationPolicy, error)
	SavePolicy(ctx context.Context, policy *domain.ReservationPolicy) (*domain.ReservationPolicy, error)
	GetCalendar(ctx context.Context) (domain.BusinessCalendar, error)
	SaveDayHours(ctx context.Context, weekday domain.Weekday, hours domain.DayHours) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
