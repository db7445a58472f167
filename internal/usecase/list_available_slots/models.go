package list_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date      time.Time // Дата (полночь UTC)
	PartySize int       // Размер компании, 0 - по умолчанию 1
}

// Response модель ответа со списком доступных слотов.
// Пустой список - выходной или всё занято; причину отдаёт get_day_status.
type Response struct {
	Date            time.Time
	PartySize       int
	DurationMinutes int
	Slots           []Slot
}

// Slot доступное время начала брони
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "19:00")
	AvailableTables int              // Сколько столов подходит для компании
}
