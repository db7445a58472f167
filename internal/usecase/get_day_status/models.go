package get_day_status

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса статуса дня
type Request struct {
	Date time.Time // Дата (полночь UTC)
}

// Response почему у дня есть или нет слотов
type Response struct {
	Date      time.Time
	Weekday   domain.Weekday
	Status    availability.DayStatus
	Open      *types.TimeString // nil для выходного
	Close     *types.TimeString
	FirstSlot *types.TimeString // nil, если слотов нет
	LastSlot  *types.TimeString
	InWindow  bool // дата попадает в окно бронирования
}
