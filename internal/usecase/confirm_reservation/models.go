package confirm_reservation

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// Request модель запроса на подтверждение бронирования
type Request struct {
	ReservationID int64
	Actor         domain.Actor
}

// Response модель ответа с подтверждённым бронированием
type Response struct {
	Reservation *domain.Reservation
	Reassigned  bool // предварительный стол был занят, бронь пересажена на другой
}
