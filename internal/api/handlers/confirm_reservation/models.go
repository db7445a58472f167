package confirm_reservation

import (
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
)

// ConfirmReservationResponse HTTP response model
type ConfirmReservationResponse struct {
	*models.ReservationResponse
	Reassigned bool `json:"reassigned"` // бронь пересажена на другой стол
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *uc.Response) *ConfirmReservationResponse {
	return &ConfirmReservationResponse{
		ReservationResponse: models.FromDomainReservation(resp.Reservation),
		Reassigned:          resp.Reassigned,
	}
}
