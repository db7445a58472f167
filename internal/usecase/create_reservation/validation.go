package create_reservation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Формат времени проверяет matcher (ErrInvalidSlot).
func validateRequest(req *Request) error {
	if req.UserID != nil && *req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.PartySize <= 0 || req.PartySize > domain.MaxPartySize {
		return fmt.Errorf("%w: partySize must be in 1..%d", ErrInvalidInput, domain.MaxPartySize)
	}

	req.ContactName = strings.TrimSpace(req.ContactName)
	req.ContactPhone = strings.TrimSpace(req.ContactPhone)

	if len(req.ContactName) > domain.MaxContactNameLength {
		return fmt.Errorf("%w: contactName is longer than %d", ErrInvalidInput, domain.MaxContactNameLength)
	}

	if len(req.ContactPhone) > domain.MaxContactPhoneLength {
		return fmt.Errorf("%w: contactPhone is longer than %d", ErrInvalidInput, domain.MaxContactPhoneLength)
	}

	if req.ContactEmail != nil {
		if len(*req.ContactEmail) > domain.MaxContactEmailLength {
			return fmt.Errorf("%w: contactEmail is longer than %d", ErrInvalidInput, domain.MaxContactEmailLength)
		}
		if _, err := mail.ParseAddress(*req.ContactEmail); err != nil {
			return fmt.Errorf("%w: invalid contactEmail: %v", ErrInvalidInput, err)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are longer than %d", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.IdempotencyKey != nil {
		key := strings.TrimSpace(*req.IdempotencyKey)
		if key == "" || len(key) > domain.MaxIdempotencyKeyLength {
			return fmt.Errorf("%w: idempotency key must be 1..%d characters", ErrInvalidInput, domain.MaxIdempotencyKeyLength)
		}
		req.IdempotencyKey = &key
	}

	return nil
}

// hasContact проверяет, что имя и телефон для связи заданы
func hasContact(req *Request) bool {
	return req.ContactName != "" && req.ContactPhone != ""
}

// rejectionReason метка причины отказа для метрик
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfWindow):
		return "out_of_window"
	case errors.Is(err, domain.ErrInvalidSlot):
		return "invalid_slot"
	case errors.Is(err, domain.ErrFullyBooked):
		return "fully_booked"
	case errors.Is(err, domain.ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrContactRequired):
		return "invalid_input"
	default:
		return "internal"
	}
}
