package cli

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
)

// routeHandlers обработчики всех эндпоинтов API
type routeHandlers struct {
	availableSlots      http.HandlerFunc
	dayStatus           http.HandlerFunc
	createReservation   http.HandlerFunc
	getReservation      http.HandlerFunc
	cancelReservation   http.HandlerFunc
	userReservations    http.HandlerFunc
	listReservations    http.HandlerFunc
	confirmReservation  http.HandlerFunc
	rejectReservation   http.HandlerFunc
	completeReservation http.HandlerFunc
	getSettings         http.HandlerFunc
	updatePolicy        http.HandlerFunc
	updateBusinessHours http.HandlerFunc
	listTables          http.HandlerFunc
	createTable         http.HandlerFunc
	deleteTable         http.HandlerFunc
}

// registerRoutes регистрирует эндпоинты /api/v1 с нужным уровнем доступа
func registerRoutes(r *mux.Router, h routeHandlers) {
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()

	// Свободные слоты и статус дня
	public.HandleFunc("/availability/slots", h.availableSlots).Methods(http.MethodGet)
	public.HandleFunc("/availability/day-status", h.dayStatus).Methods(http.MethodGet)

	// Политика и часы работы
	public.HandleFunc("/settings", h.getSettings).Methods(http.MethodGet)

	// ============================================================
	// GUEST OR USER (X-User-ID необязателен)
	// ============================================================

	optional := api.PathPrefix("").Subrouter()
	optional.Use(middleware.OptionalAuth)

	// Создание бронирования
	optional.HandleFunc("/reservations", h.createReservation).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (X-User-Role: staff)
	// ============================================================

	staff := api.PathPrefix("").Subrouter()
	staff.Use(middleware.Auth, middleware.StaffOnly)

	// --- Бронирования ---
	staff.HandleFunc("/reservations", h.listReservations).Methods(http.MethodGet)
	staff.HandleFunc("/reservations/{reservationId}/confirm", h.confirmReservation).Methods(http.MethodPatch)
	staff.HandleFunc("/reservations/{reservationId}/reject", h.rejectReservation).Methods(http.MethodPatch)
	staff.HandleFunc("/reservations/{reservationId}/complete", h.completeReservation).Methods(http.MethodPatch)

	// --- Настройки ресторана ---
	staff.HandleFunc("/settings/policy", h.updatePolicy).Methods(http.MethodPut)
	staff.HandleFunc("/settings/business-hours/{weekday}", h.updateBusinessHours).Methods(http.MethodPut)

	// --- Столы ---
	staff.HandleFunc("/tables", h.listTables).Methods(http.MethodGet)
	staff.HandleFunc("/tables", h.createTable).Methods(http.MethodPost)
	staff.HandleFunc("/tables/{tableId}", h.deleteTable).Methods(http.MethodDelete)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/reservations/{reservationId}", h.getReservation).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", h.cancelReservation).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/reservations", h.userReservations).Methods(http.MethodGet)
}
