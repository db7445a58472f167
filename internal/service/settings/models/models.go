package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// UpdatePolicyRequest запрос на обновление политики бронирования.
// Все поля опциональны - обновляются только переданные значения
type UpdatePolicyRequest struct {
	MaxDaysInAdvance        *int `json:"maxDaysInAdvance,omitempty"`
	MinHoursInAdvance       *int `json:"minHoursInAdvance,omitempty"`
	TimeSlotIntervalMinutes *int `json:"timeSlotIntervalMinutes,omitempty"`
	DefaultDurationMinutes  *int `json:"defaultDurationMinutes,omitempty"`
}

// UpdateBusinessHoursRequest запрос на изменение часов работы одного дня недели
type UpdateBusinessHoursRequest struct {
	Weekday domain.Weekday `json:"-"`
	Open    *string        `json:"open,omitempty"`  // "11:00"
	Close   *string        `json:"close,omitempty"` // "22:00", допускается "24:00"
	Closed  bool           `json:"closed"`
}

// Response модели

// PolicyResponse политика бронирования
type PolicyResponse struct {
	MaxDaysInAdvance        int        `json:"maxDaysInAdvance"`
	MinHoursInAdvance       int        `json:"minHoursInAdvance"`
	TimeSlotIntervalMinutes int        `json:"timeSlotIntervalMinutes"`
	DefaultDurationMinutes  int        `json:"defaultDurationMinutes"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"` // nil, пока политика не сохранялась
}

// DayHoursResponse часы работы дня недели
type DayHoursResponse struct {
	Weekday    string  `json:"weekday"`
	Open       *string `json:"open,omitempty"`
	Close      *string `json:"close,omitempty"`
	Closed     bool    `json:"closed"`
	Configured bool    `json:"configured"`
}

// SettingsResponse все настройки ресторана
type SettingsResponse struct {
	Timezone      string             `json:"timezone"`
	Policy        PolicyResponse     `json:"policy"`
	BusinessHours []DayHoursResponse `json:"businessHours"`
}

// Методы конвертации

// FromDomainPolicy конвертирует политику в DTO
func FromDomainPolicy(p domain.ReservationPolicy) PolicyResponse {
	resp := PolicyResponse{
		MaxDaysInAdvance:        p.MaxDaysInAdvance,
		MinHoursInAdvance:       p.MinHoursInAdvance,
		TimeSlotIntervalMinutes: p.TimeSlotIntervalMinutes,
		DefaultDurationMinutes:  p.DefaultDurationMinutes,
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// FromDomainDayHours конвертирует часы работы дня в DTO
func FromDomainDayHours(weekday domain.Weekday, h domain.DayHours) DayHoursResponse {
	resp := DayHoursResponse{
		Weekday:    weekday.String(),
		Closed:     h.Closed,
		Configured: h != domain.DayHours{},
	}
	if !h.Open.IsZero() {
		open := h.Open.String()
		resp.Open = &open
	}
	if !h.Close.IsZero() {
		closeAt := h.Close.String()
		resp.Close = &closeAt
	}
	return resp
}

// FromDomainCalendar конвертирует недельный календарь в DTO, начиная с понедельника
func FromDomainCalendar(c domain.BusinessCalendar) []DayHoursResponse {
	days := make([]DayHoursResponse, 0, domain.DaysInWeek)
	for i, h := range c {
		days = append(days, FromDomainDayHours(domain.Weekday(i), h))
	}
	return days
}
