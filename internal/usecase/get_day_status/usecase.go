package get_day_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UseCase use case статуса дня: открыт, выходной или бронь не помещается в часы работы
type UseCase struct {
	settings     SettingsProvider
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(settings SettingsProvider, logger Logger) *UseCase {
	return &UseCase{
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения статуса дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDayStatus: date=%s", req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Политика и календарь
	matcher, err := uc.settings.Matcher(ctx)
	if err != nil {
		uc.logger.Error("GetDayStatus: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	// 3. План дня
	plan, err := matcher.Slots().Plan(req.Date)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			uc.logger.Error("GetDayStatus: configuration error: %v", err)
			return nil, err
		}
		uc.logger.Error("GetDayStatus: failed to plan day: %v", err)
		return nil, fmt.Errorf("%w: failed to plan day: %v", ErrInternal, err)
	}

	if plan.Status == availability.DayNoFit {
		uc.logger.Error("GetDayStatus: configuration error: %d minute reservations do not fit into %s-%s",
			matcher.Policy().DefaultDurationMinutes, plan.Hours.Open, plan.Hours.Close)
	}

	// 4. Формируем ответ
	resp := &Response{
		Date:     req.Date,
		Weekday:  domain.WeekdayOf(req.Date),
		Status:   plan.Status,
		InWindow: matcher.CheckDate(uc.timeProvider.Now(), req.Date) == nil,
	}

	if !plan.Hours.Closed {
		resp.Open = &plan.Hours.Open
		resp.Close = &plan.Hours.Close
	}

	if plan.Status == availability.DayOpen {
		first, _ := types.FromMinutes(plan.FirstSlot)
		last, _ := types.FromMinutes(plan.LastSlot - (plan.LastSlot-plan.FirstSlot)%plan.Step)
		resp.FirstSlot = &first
		resp.LastSlot = &last
	}

	uc.logger.Info("GetDayStatus: %s is %s", req.Date.Format(domain.DateFormat), plan.Status)
	return resp, nil
}
