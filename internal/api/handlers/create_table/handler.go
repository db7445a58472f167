package create_table

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables/models"
)

const (
	msgInvalidRequest = "некорректное тело запроса"
	msgInvalidTable   = "некорректные параметры стола"
)

type Handler struct {
	service TableService
	logger  Logger
}

func NewHandler(service TableService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/tables
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTableRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tables - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, tables.ErrInvalidInput) {
			h.logger.Warn("POST /tables - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTable)
			return
		}
		h.logger.Error("POST /tables - Failed to create table: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /tables - Table created: table_id=%d, capacity=%d", resp.ID, resp.Capacity)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
