package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrDuplicateIdempotencyKey возвращается, когда бронирование с таким ключом идемпотентности уже есть
	ErrDuplicateIdempotencyKey = errors.New("reservation.repository: duplicate idempotency key")

	// ErrOverlap возвращается, когда подтверждённое бронирование пересекается с другим на том же столе
	ErrOverlap = errors.New("reservation.repository: confirmed reservations overlap")

	// ErrConflict возвращается при serialization failure или deadlock
	ErrConflict = errors.New("reservation.repository: concurrent update conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
