package create_table

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/service/tables"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockService struct {
	createFunc func(ctx context.Context, req *models.CreateTableRequest) (*models.TableResponse, error)
}

func (m *mockService) Create(ctx context.Context, req *models.CreateTableRequest) (*models.TableResponse, error) {
	return m.createFunc(ctx, req)
}

func TestHandler_Handle(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h := NewHandler(&mockService{createFunc: func(ctx context.Context, req *models.CreateTableRequest) (*models.TableResponse, error) {
			return &models.TableResponse{ID: 9, Capacity: req.Capacity, Location: req.Location, Active: true}, nil
		}}, logger.NewNop())
		rec := httptest.NewRecorder()

		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tables", strings.NewReader(`{"capacity":4,"location":"terrace"}`)))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":9`)
		assert.Contains(t, rec.Body.String(), `"location":"terrace"`)
	})

	t.Run("invalidCapacity", func(t *testing.T) {
		h := NewHandler(&mockService{createFunc: func(ctx context.Context, req *models.CreateTableRequest) (*models.TableResponse, error) {
			return nil, fmt.Errorf("%w: capacity must be in 1..50", tables.ErrInvalidInput)
		}}, logger.NewNop())
		rec := httptest.NewRecorder()

		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tables", strings.NewReader(`{"capacity":0}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformedBody", func(t *testing.T) {
		h := NewHandler(&mockService{}, logger.NewNop())
		rec := httptest.NewRecorder()

		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tables", strings.NewReader(`{"capacity":"four"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
