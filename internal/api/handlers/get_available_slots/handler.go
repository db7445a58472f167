package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/list_available_slots"
)

const (
	msgInvalidDate      = "некорректная дата, ожидается YYYY-MM-DD"
	msgInvalidPartySize = "некорректный размер компании"
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

// Handle GET /api/v1/availability/slots?date=2025-06-09&partySize=4
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /availability/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	partySize, err := handlers.QueryOptionalInt(r, "partySize")
	if err != nil {
		h.logger.Warn("GET /availability/slots - Invalid party size: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPartySize)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &uc.Request{Date: date, PartySize: partySize})
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrInvalidInput):
			h.logger.Warn("GET /availability/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPartySize)

		case handlers.IsDomainError(err):
			h.logger.Warn("GET /availability/slots - %v", err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("GET /availability/slots - Failed to list slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/slots - %d slots for date=%s, party=%d",
		len(resp.Slots), r.URL.Query().Get("date"), resp.PartySize)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
