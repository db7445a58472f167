package get_available_slots

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/list_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date            string         `json:"date"`
	PartySize       int            `json:"partySize"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse доступное время начала
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	AvailableTables int    `json:"availableTables"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *uc.Response) *SlotsResponse {
	result := &SlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		PartySize:       resp.PartySize,
		DurationMinutes: resp.DurationMinutes,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, slot := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			StartTime:       slot.StartTime.String(),
			AvailableTables: slot.AvailableTables,
		})
	}

	return result
}
