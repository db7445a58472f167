package idempotency

import "errors"

var (
	// ErrStore возвращается при ошибке обращения к Redis
	ErrStore = errors.New("idempotency.store: redis error")

	// ErrCorruptedValue возвращается, когда значение по ключу не является ID бронирования
	ErrCorruptedValue = errors.New("idempotency.store: corrupted value")
)
