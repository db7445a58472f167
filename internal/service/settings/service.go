package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Service сервис настроек ресторана: политика бронирования и часы работы.
// Также собирает availability.Matcher для use case'ов.
type Service struct {
	repo   SettingsRepository
	loc    *time.Location
	logger Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo SettingsRepository, loc *time.Location, logger Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:   repo,
		loc:    loc,
		logger: logger,
	}
}

// Location часовой пояс ресторана
func (s *Service) Location() *time.Location {
	return s.loc
}

// Policy получает политику бронирования.
// Пока администратор её не сохранил, действует domain.DefaultPolicy.
func (s *Service) Policy(ctx context.Context) (domain.ReservationPolicy, error) {
	policy, err := s.repo.GetPolicy(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrPolicyNotFound) {
			return domain.DefaultPolicy(), nil
		}
		s.logger.Error("Policy: repository error: %v", err)
		return domain.ReservationPolicy{}, fmt.Errorf("%w: Policy - repository error: %v", ErrInternal, err)
	}
	return *policy, nil
}

// Calendar получает недельный календарь
func (s *Service) Calendar(ctx context.Context) (domain.BusinessCalendar, error) {
	calendar, err := s.repo.GetCalendar(ctx)
	if err != nil {
		s.logger.Error("Calendar: repository error: %v", err)
		return calendar, fmt.Errorf("%w: Calendar - repository error: %v", ErrInternal, err)
	}
	return calendar, nil
}

// Matcher собирает matcher на текущих политике и календаре
func (s *Service) Matcher(ctx context.Context) (*availability.Matcher, error) {
	policy, err := s.Policy(ctx)
	if err != nil {
		return nil, err
	}

	calendar, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	return availability.NewMatcher(calendar, policy, s.loc), nil
}

// GetSettings возвращает политику, календарь и часовой пояс
func (s *Service) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings")

	policy, err := s.Policy(ctx)
	if err != nil {
		return nil, err
	}

	calendar, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	return &models.SettingsResponse{
		Timezone:      s.loc.String(),
		Policy:        models.FromDomainPolicy(policy),
		BusinessHours: models.FromDomainCalendar(calendar),
	}, nil
}

// UpdatePolicy обновляет политику бронирования.
// Новая длительность брони должна помещаться в часы работы каждого настроенного дня.
func (s *Service) UpdatePolicy(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("UpdatePolicy: updating reservation policy")

	// 1. Текущая политика
	policy, err := s.Policy(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Применяем переданные поля
	if req.MaxDaysInAdvance != nil {
		policy.MaxDaysInAdvance = *req.MaxDaysInAdvance
	}
	if req.MinHoursInAdvance != nil {
		policy.MinHoursInAdvance = *req.MinHoursInAdvance
	}
	if req.TimeSlotIntervalMinutes != nil {
		policy.TimeSlotIntervalMinutes = *req.TimeSlotIntervalMinutes
	}
	if req.DefaultDurationMinutes != nil {
		policy.DefaultDurationMinutes = *req.DefaultDurationMinutes
	}

	// 3. Проверяем политику вместе с календарём
	calendar, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	if err := policy.ValidateAgainst(configuredOnly(calendar)); err != nil {
		s.logger.Warn("UpdatePolicy: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Сохраняем
	saved, err := s.repo.SavePolicy(ctx, &policy)
	if err != nil {
		s.logger.Error("UpdatePolicy: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdatePolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePolicy: policy saved: maxDays=%d, minHours=%d, interval=%d, duration=%d",
		saved.MaxDaysInAdvance, saved.MinHoursInAdvance, saved.TimeSlotIntervalMinutes, saved.DefaultDurationMinutes)

	resp := models.FromDomainPolicy(*saved)
	return &resp, nil
}

// UpdateBusinessHours изменяет часы работы одного дня недели
func (s *Service) UpdateBusinessHours(ctx context.Context, req *models.UpdateBusinessHoursRequest) (*models.DayHoursResponse, error) {
	s.logger.Info("UpdateBusinessHours: updating %s, closed=%t", req.Weekday, req.Closed)

	// 1. Разбираем и валидируем часы
	hours, err := parseDayHours(req)
	if err != nil {
		s.logger.Warn("UpdateBusinessHours: validation failed: %v", err)
		return nil, err
	}

	// 2. Длительность брони должна помещаться в новые часы
	policy, err := s.Policy(ctx)
	if err != nil {
		return nil, err
	}

	if !hours.Closed && policy.DefaultDurationMinutes > hours.Length() {
		s.logger.Warn("UpdateBusinessHours: %d minute reservations do not fit into %s-%s",
			policy.DefaultDurationMinutes, hours.Open, hours.Close)
		return nil, fmt.Errorf("%w: reservation duration %d minutes does not fit into %s-%s",
			ErrInvalidInput, policy.DefaultDurationMinutes, hours.Open, hours.Close)
	}

	// 3. Сохраняем
	if err := s.repo.SaveDayHours(ctx, req.Weekday, hours); err != nil {
		s.logger.Error("UpdateBusinessHours: repository error for %s: %v", req.Weekday, err)
		return nil, fmt.Errorf("%w: UpdateBusinessHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateBusinessHours: %s saved", req.Weekday)

	resp := models.FromDomainDayHours(req.Weekday, hours)
	return &resp, nil
}

// parseDayHours собирает domain.DayHours из запроса
func parseDayHours(req *models.UpdateBusinessHoursRequest) (domain.DayHours, error) {
	if !req.Weekday.IsValid() {
		return domain.DayHours{}, fmt.Errorf("%w: invalid weekday", ErrInvalidInput)
	}

	if req.Closed {
		return domain.DayHours{Closed: true}, nil
	}

	if req.Open == nil || req.Close == nil {
		return domain.DayHours{}, fmt.Errorf("%w: open and close are required for an open day", ErrInvalidInput)
	}

	open, err := types.NewTimeStringFromString(*req.Open)
	if err != nil {
		return domain.DayHours{}, fmt.Errorf("%w: invalid open time: %v", ErrInvalidInput, err)
	}
	closeAt, err := types.NewTimeStringFromString(*req.Close)
	if err != nil {
		return domain.DayHours{}, fmt.Errorf("%w: invalid close time: %v", ErrInvalidInput, err)
	}

	hours := domain.DayHours{Open: open, Close: closeAt}
	if err := hours.Validate(); err != nil {
		return domain.DayHours{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return hours, nil
}

// configuredOnly считает ненастроенные дни выходными, чтобы политику можно было задать до календаря
func configuredOnly(calendar domain.BusinessCalendar) domain.BusinessCalendar {
	for i, hours := range calendar {
		if hours == (domain.DayHours{}) {
			calendar[i].Closed = true
		}
	}
	return calendar
}
