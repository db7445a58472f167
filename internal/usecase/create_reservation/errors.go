package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrContactRequired возвращается, когда контакт не передан и не найден в UserService
	ErrContactRequired = errors.New("create_reservation: contact name and phone are required")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")

	// errDuplicateKey параллельный запрос с тем же ключом успел вставить бронь
	errDuplicateKey = errors.New("create_reservation: duplicate idempotency key")
)
