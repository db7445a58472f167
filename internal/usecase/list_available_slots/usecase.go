package list_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	settings        SettingsProvider
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		settings:        settings,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Повторный вызов без новых броней возвращает ту же последовательность.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListAvailableSlots: date=%s, partySize=%d", req.Date.Format(domain.DateFormat), req.PartySize)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Политика и календарь
	matcher, err := uc.settings.Matcher(ctx)
	if err != nil {
		uc.logger.Error("ListAvailableSlots: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	// 4. Столы и журнал подтверждённых броней на дату читаем из одного снимка
	var (
		tables    []*domain.Table
		confirmed []*domain.Reservation
	)
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		tables, err = uc.tableRepo.ListActive(txCtx)
		if err != nil {
			return fmt.Errorf("failed to get tables: %w", err)
		}

		confirmed, err = uc.reservationRepo.GetConfirmedByDate(txCtx, req.Date)
		if err != nil {
			return fmt.Errorf("failed to get reservations: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("ListAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Слоты, на которые есть хотя бы один стол
	available, status, err := matcher.Available(now, req.Date, req.PartySize, tables, confirmed)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOutOfWindow):
			uc.logger.Warn("ListAvailableSlots: %v", err)
			return nil, err
		case errors.Is(err, domain.ErrConfiguration):
			uc.logger.Error("ListAvailableSlots: configuration error: %v", err)
			return nil, err
		case errors.Is(err, availability.ErrInvalidPartySize):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("ListAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	// 6. Формируем ответ
	slots := make([]Slot, 0, len(available))
	for _, start := range available {
		free := matcher.FreeTables(req.Date, req.PartySize, matcher.Window(start), tables, confirmed)
		slots = append(slots, Slot{
			StartTime:       start,
			AvailableTables: len(free),
		})
	}

	uc.logger.Info("ListAvailableSlots: %d slots available on %s (day %s)",
		len(slots), req.Date.Format(domain.DateFormat), status)

	return &Response{
		Date:            req.Date,
		PartySize:       req.PartySize,
		DurationMinutes: matcher.Policy().DefaultDurationMinutes,
		Slots:           slots,
	}, nil
}
