package availability

import "errors"

var (
	// ErrInvalidPartySize возвращается, когда размер компании не положительный
	ErrInvalidPartySize = errors.New("availability: party size must be positive")
)
