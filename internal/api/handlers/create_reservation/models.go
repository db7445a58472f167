package create_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	Date         string  `json:"date"`      // "2025-06-09"
	StartTime    string  `json:"startTime"` // "19:00"
	PartySize    int     `json:"partySize"`
	ContactName  string  `json:"contactName,omitempty"`
	ContactPhone string  `json:"contactPhone,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID *int64, idempotencyKey *string) (*uc.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: expected YYYY-MM-DD")
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %v", err)
	}

	return &uc.Request{
		UserID:         userID,
		Date:           date,
		StartTime:      startTime,
		PartySize:      r.PartySize,
		ContactName:    r.ContactName,
		ContactPhone:   r.ContactPhone,
		ContactEmail:   r.ContactEmail,
		Notes:          r.Notes,
		IdempotencyKey: idempotencyKey,
	}, nil
}
