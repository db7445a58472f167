package update_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
)

const (
	msgInvalidRequest = "некорректное тело запроса"
	msgInvalidPolicy  = "некорректная политика бронирования"
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

// Handle PUT /api/v1/settings/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /settings/policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	resp, err := h.service.UpdatePolicy(r.Context(), &req)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidInput) {
			h.logger.Warn("PUT /settings/policy - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPolicy)
			return
		}
		h.logger.Error("PUT /settings/policy - Failed to update policy: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /settings/policy - Policy updated")
	handlers.RespondJSON(w, http.StatusOK, resp)
}
