package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// CancelRequest запрос на отмену или отклонение бронирования
type CancelRequest struct {
	Actor  domain.Actor `json:"-"`
	Reason *string      `json:"reason,omitempty"`
}

// ListByDateRequest запрос сотрудника на бронирования за дату
type ListByDateRequest struct {
	Actor  domain.Actor
	Date   time.Time
	Status *string // Фильтр по статусу (опционально)
}

// ListByUserRequest запрос на историю бронирований пользователя
type ListByUserRequest struct {
	Actor  domain.Actor
	UserID int64
	Status *string // Фильтр по статусу (опционально)
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64   `json:"id"`
	TableID         *int64  `json:"tableId,omitempty"`
	UserID          *int64  `json:"userId,omitempty"`
	Date            string  `json:"date"`      // "2025-06-09"
	StartTime       string  `json:"startTime"` // "19:00"
	EndTime         string  `json:"endTime"`   // "20:30"
	DurationMinutes int     `json:"durationMinutes"`
	PartySize       int     `json:"partySize"`
	Status          string  `json:"status"`
	ContactName     string  `json:"contactName"`
	ContactPhone    string  `json:"contactPhone"`
	ContactEmail    *string `json:"contactEmail,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// CompleteEndedResponse итог пакетного завершения
type CompleteEndedResponse struct {
	Completed int `json:"completed"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	endTime, _ := r.StartTime.AddMinutes(r.DurationMinutes)
	resp := &ReservationResponse{
		ID:                 r.ID,
		TableID:            r.TableID,
		UserID:             r.UserID,
		Date:               r.Date.Format(domain.DateFormat),
		StartTime:          r.StartTime.String(),
		EndTime:            endTime.String(),
		DurationMinutes:    r.DurationMinutes,
		PartySize:          r.PartySize,
		Status:             string(r.Status),
		ContactName:        r.ContactName,
		ContactPhone:       r.ContactPhone,
		ContactEmail:       r.ContactEmail,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.CancelledBy != nil {
		by := string(*r.CancelledBy)
		resp.CancelledBy = &by
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(r))
	}

	return resp
}

// ToDomainStatuses конвертирует необязательный фильтр статуса
func ToDomainStatuses(status *string) ([]domain.ReservationStatus, error) {
	if status == nil {
		return nil, nil
	}
	parsed, err := domain.ParseReservationStatus(*status)
	if err != nil {
		return nil, err
	}
	return []domain.ReservationStatus{parsed}, nil
}
