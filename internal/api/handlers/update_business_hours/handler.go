package update_business_hours

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
)

const (
	msgInvalidWeekday = "некорректный день недели"
	msgInvalidRequest = "некорректное тело запроса"
	msgInvalidHours   = "некорректные часы работы"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/settings/business-hours/{weekday}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	weekday, err := domain.ParseWeekday(mux.Vars(r)["weekday"])
	if err != nil {
		h.logger.Warn("PUT /settings/business-hours/{weekday} - Invalid weekday: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	var req models.UpdateBusinessHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /settings/business-hours/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}
	req.Weekday = weekday

	resp, err := h.service.UpdateBusinessHours(r.Context(), &req)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidInput) {
			h.logger.Warn("PUT /settings/business-hours/{weekday} - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHours)
			return
		}
		h.logger.Error("PUT /settings/business-hours/{weekday} - Failed to update %s: %v", weekday, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /settings/business-hours/{weekday} - Hours updated: %s", weekday)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
