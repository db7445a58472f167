package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Сообщения для исходов бронирования
const (
	msgOutOfWindow              = "время вне окна бронирования"
	msgInvalidSlot              = "выбранное время не является слотом бронирования"
	msgFullyBooked              = "нет свободных столов на выбранное время"
	msgSlotTaken                = "выбранный слот только что заняли, выберите другое время"
	msgInvalidTransition        = "действие недоступно для текущего статуса бронирования"
	msgCancellationWindowPassed = "отменить бронирование уже нельзя"
	msgConfiguration            = "бронирование временно недоступно: настройки ресторана некорректны"
)

// domainErrors исходы бронирования, которые отдаются клиенту как есть
var domainErrors = []error{
	domain.ErrOutOfWindow,
	domain.ErrInvalidSlot,
	domain.ErrCancellationWindowPassed,
	domain.ErrFullyBooked,
	domain.ErrSlotTaken,
	domain.ErrInvalidTransition,
	domain.ErrConfiguration,
}

// IsDomainError сообщает, является ли err исходом бронирования из internal/domain
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RespondDomainError отвечает на исход бронирования из internal/domain.
// Для остальных ошибок отвечает 500.
func RespondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOutOfWindow):
		RespondError(w, http.StatusBadRequest, CodeOutOfWindow, msgOutOfWindow)
	case errors.Is(err, domain.ErrInvalidSlot):
		RespondError(w, http.StatusBadRequest, CodeInvalidSlot, msgInvalidSlot)
	case errors.Is(err, domain.ErrCancellationWindowPassed):
		RespondError(w, http.StatusBadRequest, CodeCancellationWindowPassed, msgCancellationWindowPassed)
	case errors.Is(err, domain.ErrFullyBooked):
		RespondConflict(w, CodeFullyBooked, msgFullyBooked)
	case errors.Is(err, domain.ErrSlotTaken):
		RespondConflict(w, CodeSlotTaken, msgSlotTaken)
	case errors.Is(err, domain.ErrInvalidTransition):
		RespondConflict(w, CodeInvalidTransition, msgInvalidTransition)
	case errors.Is(err, domain.ErrConfiguration):
		RespondServiceUnavailable(w, msgConfiguration)
	default:
		RespondInternalError(w)
	}
}
