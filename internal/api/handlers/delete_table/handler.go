package delete_table

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables"
)

const (
	msgInvalidTableID = "некорректный ID стола"
	msgNotFound       = "стол не найден"
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

// Handle DELETE /api/v1/tables/{tableId}
// Стол деактивируется: существующие брони сохраняют ссылку на него.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tableID, err := handlers.PathInt64(r, "tableId")
	if err != nil {
		h.logger.Warn("DELETE /tables/{tableId} - Invalid table ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTableID)
		return
	}

	if err := h.service.Delete(r.Context(), tableID); err != nil {
		if errors.Is(err, tables.ErrTableNotFound) {
			h.logger.Warn("DELETE /tables/{tableId} - Table not found: table_id=%d", tableID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /tables/{tableId} - Failed to delete table: table_id=%d, error=%v", tableID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /tables/{tableId} - Table deactivated: table_id=%d", tableID)
	w.WriteHeader(http.StatusNoContent)
}
