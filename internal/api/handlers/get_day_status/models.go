package get_day_status

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/get_day_status"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DayStatusResponse HTTP response model
type DayStatusResponse struct {
	Date      string  `json:"date"`
	Weekday   string  `json:"weekday"`
	Status    string  `json:"status"` // open | closed | no_fit
	Open      *string `json:"open,omitempty"`
	Close     *string `json:"close,omitempty"`
	FirstSlot *string `json:"firstSlot,omitempty"`
	LastSlot  *string `json:"lastSlot,omitempty"`
	InWindow  bool    `json:"inWindow"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *uc.Response) *DayStatusResponse {
	return &DayStatusResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		Weekday:   resp.Weekday.String(),
		Status:    string(resp.Status),
		Open:      timeString(resp.Open),
		Close:     timeString(resp.Close),
		FirstSlot: timeString(resp.FirstSlot),
		LastSlot:  timeString(resp.LastSlot),
		InWindow:  resp.InWindow,
	}
}

func timeString(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
