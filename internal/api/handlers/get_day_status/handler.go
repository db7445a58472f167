package get_day_status

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/get_day_status"
)

const msgInvalidDate = "некорректная дата, ожидается YYYY-MM-DD"

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

// Handle GET /api/v1/availability/day-status?date=2025-06-09
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /availability/day-status - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &uc.Request{Date: date})
	if err != nil {
		if handlers.IsDomainError(err) {
			h.logger.Warn("GET /availability/day-status - %v", err)
			handlers.RespondDomainError(w, err)
			return
		}
		h.logger.Error("GET /availability/day-status - Failed to get day status: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /availability/day-status - date=%s status=%s", r.URL.Query().Get("date"), resp.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
