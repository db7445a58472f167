package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"outOfWindow", fmt.Errorf("%w: past", domain.ErrOutOfWindow), http.StatusBadRequest, CodeOutOfWindow},
		{"invalidSlot", domain.ErrInvalidSlot, http.StatusBadRequest, CodeInvalidSlot},
		{"windowPassed", domain.ErrCancellationWindowPassed, http.StatusBadRequest, CodeCancellationWindowPassed},
		{"fullyBooked", domain.ErrFullyBooked, http.StatusConflict, CodeFullyBooked},
		{"slotTaken", domain.ErrSlotTaken, http.StatusConflict, CodeSlotTaken},
		{"invalidTransition", domain.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
		{"configuration", domain.NewConfigurationError("policy", "broken"), http.StatusServiceUnavailable, CodeConfiguration},
		{"other", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			RespondDomainError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}

	assert.True(t, IsDomainError(fmt.Errorf("wrap: %w", domain.ErrSlotTaken)))
	assert.False(t, IsDomainError(errors.New("boom")))
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("emptyBody", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		require.NoError(t, DecodeJSON(req, &p))
		assert.Empty(t, p.Name)
	})

	t.Run("decodes", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Anna"}`))
		require.NoError(t, DecodeJSON(req, &p))
		assert.Equal(t, "Anna", p.Name)
	})

	t.Run("unknownField", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Anna","age":3}`))
		assert.Error(t, DecodeJSON(req, &p))
	})
}

func TestParams(t *testing.T) {
	t.Run("pathInt64", func(t *testing.T) {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "12"})
		id, err := PathInt64(req, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(12), id)

		for _, raw := range []string{"0", "-3", "abc", ""} {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": raw})
			_, err := PathInt64(req, "id")
			assert.Error(t, err, raw)
		}
	})

	t.Run("queryDate", func(t *testing.T) {
		date, err := QueryDate(httptest.NewRequest(http.MethodGet, "/?date=2025-06-09", nil), "date")
		require.NoError(t, err)
		assert.Equal(t, "2025-06-09", date.Format(domain.DateFormat))

		_, err = QueryDate(httptest.NewRequest(http.MethodGet, "/", nil), "date")
		assert.Error(t, err)

		_, err = QueryDate(httptest.NewRequest(http.MethodGet, "/?date=09.06.2025", nil), "date")
		assert.Error(t, err)
	})

	t.Run("queryOptional", func(t *testing.T) {
		n, err := QueryOptionalInt(httptest.NewRequest(http.MethodGet, "/", nil), "partySize")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = QueryOptionalInt(httptest.NewRequest(http.MethodGet, "/?partySize=6", nil), "partySize")
		require.NoError(t, err)
		assert.Equal(t, 6, n)

		_, err = QueryOptionalInt(httptest.NewRequest(http.MethodGet, "/?partySize=six", nil), "partySize")
		assert.Error(t, err)

		assert.Nil(t, QueryOptionalString(httptest.NewRequest(http.MethodGet, "/", nil), "status"))
		status := QueryOptionalString(httptest.NewRequest(http.MethodGet, "/?status=pending", nil), "status")
		require.NotNil(t, status)
		assert.Equal(t, "pending", *status)
	})
}
