package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

const (
	// HeaderIdempotencyKey ключ идемпотентности запроса на бронирование
	HeaderIdempotencyKey = "Idempotency-Key"

	// HeaderReplayed выставляется, когда вернули бронь, созданную раньше с тем же ключом
	HeaderReplayed = "Idempotent-Replayed"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные бронирования"
	msgContactRequired    = "укажите имя и телефон для связи"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Гость бронирует без X-User-ID
	var userID *int64
	if id, ok := middleware.GetUserID(r.Context()); ok {
		userID = &id
	}

	var idempotencyKey *string
	if key := r.Header.Get(HeaderIdempotencyKey); key != "" {
		idempotencyKey = &key
	}

	ucReq, err := req.ToUseCaseRequest(userID, idempotencyKey)
	if err != nil {
		h.logger.Warn("POST /reservations - Invalid request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, uc.ErrContactRequired):
			h.logger.Warn("POST /reservations - Contact required: %v", err)
			handlers.RespondError(w, http.StatusBadRequest, handlers.CodeContactRequired, msgContactRequired)

		case handlers.IsDomainError(err):
			h.logger.Warn("POST /reservations - Rejected: date=%s, time=%s, party=%d: %v",
				req.Date, req.StartTime, req.PartySize, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if resp.Replayed {
		h.logger.Info("POST /reservations - Replayed reservation id=%d", resp.Reservation.ID)
		w.Header().Set(HeaderReplayed, "true")
		handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(resp.Reservation))
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d, status=%s", resp.Reservation.ID, resp.Reservation.Status)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainReservation(resp.Reservation))
}
