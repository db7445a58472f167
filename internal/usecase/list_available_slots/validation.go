package list_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// defaultPartySize размер компании, если он не передан
const defaultPartySize = 1

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.PartySize == 0 {
		req.PartySize = defaultPartySize
	}

	if req.PartySize < 0 || req.PartySize > domain.MaxPartySize {
		return fmt.Errorf("%w: partySize must be in 1..%d", ErrInvalidInput, domain.MaxPartySize)
	}

	return nil
}
