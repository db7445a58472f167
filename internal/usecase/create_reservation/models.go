package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID         *int64           // ID пользователя, nil - гость
	Date           time.Time        // Дата брони (полночь UTC)
	StartTime      types.TimeString // Время начала слота (например, "19:00")
	PartySize      int              // Размер компании
	ContactName    string           // Имя для связи; для пользователя берётся из UserService, если пусто
	ContactPhone   string           // Телефон для связи
	ContactEmail   *string          // Email (опционально)
	Notes          *string          // Пожелания (опционально)
	IdempotencyKey *string          // Ключ идемпотентности из заголовка Idempotency-Key
}

// Response модель ответа с бронированием
type Response struct {
	Reservation *domain.Reservation
	Replayed    bool // бронь создана раньше запросом с тем же ключом идемпотентности
}
