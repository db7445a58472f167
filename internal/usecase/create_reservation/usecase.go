package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	settings        SettingsProvider
	idempotency     IdempotencyStore
	userClient      UserServiceClient
	txManager       TransactionManager
	metrics         Metrics
	autoConfirm     bool
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// idempotency может быть nil, тогда ключи проверяются только в БД.
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	settings SettingsProvider,
	idempotency IdempotencyStore,
	userClient UserServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	autoConfirm bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		settings:        settings,
		idempotency:     idempotency,
		userClient:      userClient,
		txManager:       txManager,
		metrics:         metrics,
		autoConfirm:     autoConfirm,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Стол выбирается и занимается в сериализуемой транзакции под advisory-блокировкой (стол, дата).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%v, date=%s, time=%s, party=%d",
		formatUserID(req.UserID), req.Date.Format(domain.DateFormat), req.StartTime, req.PartySize)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.IncReservationRejected(rejectionReason(err))
		return nil, err
	}

	if !resp.Replayed {
		uc.metrics.IncReservationCreated(string(resp.Reservation.Status))
	}
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Повторный запрос с тем же ключом возвращает исходную бронь
	if req.IdempotencyKey != nil {
		existing, err := uc.findByIdempotencyKey(ctx, *req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			uc.logger.Info("CreateReservation: idempotency key already used, returning reservation id=%d", existing.ID)
			return &Response{Reservation: existing, Replayed: true}, nil
		}
	}

	// 3. Контакт пользователя из UserService, если не передан
	if !hasContact(req) && req.UserID != nil {
		uc.fillContact(ctx, req)
	}
	if !hasContact(req) {
		uc.logger.Warn("CreateReservation: contact is missing")
		return nil, ErrContactRequired
	}

	// 4. Получаем текущее время
	now := uc.timeProvider.Now()

	// 5. Политика и календарь
	matcher, err := uc.settings.Matcher(ctx)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	// 6. Окно бронирования и слот проверяем до транзакции
	if err := uc.checkSlot(matcher, now, req); err != nil {
		return nil, err
	}

	var result *domain.Reservation

	// 7. Подбор и занятие стола в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Столы и журнал подтверждённых броней на дату
		tables, err := uc.tableRepo.ListActive(txCtx)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get tables: %v", err)
			return fmt.Errorf("%w: failed to get tables: %v", ErrInternal, err)
		}

		confirmed, err := uc.reservationRepo.GetConfirmedByDate(txCtx, req.Date)
		if err != nil {
			return uc.storageError("get reservations", err)
		}

		// 7.2. Наименьший подходящий свободный стол
		table, err := matcher.Match(now, availability.Request{
			Date:      req.Date,
			StartTime: req.StartTime,
			PartySize: req.PartySize,
		}, tables, confirmed)
		if err != nil {
			uc.logger.Warn("CreateReservation: no table: %v", err)
			return err
		}

		// 7.3. Блокируем только пару (стол, дата)
		if err := uc.reservationRepo.LockTableDay(txCtx, table.ID, req.Date); err != nil {
			return uc.storageError("lock table", err)
		}

		// 7.4. Журнал стола под блокировкой; гонку со снимком ловят 40001 и 23P01 при записи
		ledger, err := uc.reservationRepo.GetConfirmedByTableAndDate(txCtx, table.ID, req.Date)
		if err != nil {
			return uc.storageError("get table reservations", err)
		}
		window := matcher.Window(req.StartTime)
		if !matcher.IsTableFree(table.ID, req.Date, window, ledger) {
			uc.logger.Warn("CreateReservation: table id=%d was taken at %s by a concurrent booking", table.ID, window)
			return fmt.Errorf("%w: table %d at %s", domain.ErrSlotTaken, table.ID, window)
		}

		// 7.5. Сохраняем бронь, длительность фиксируется из политики
		reservation := &domain.Reservation{
			TableID:         &table.ID,
			UserID:          req.UserID,
			Date:            domain.DateOf(req.Date),
			StartTime:       req.StartTime,
			DurationMinutes: matcher.Policy().DefaultDurationMinutes,
			PartySize:       req.PartySize,
			Status:          uc.initialStatus(),
			ContactName:     req.ContactName,
			ContactPhone:    req.ContactPhone,
			ContactEmail:    req.ContactEmail,
			Notes:           req.Notes,
			IdempotencyKey:  req.IdempotencyKey,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			return uc.storageError("create reservation", err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errDuplicateKey):
			return uc.replayDuplicate(ctx, *req.IdempotencyKey)
		case errors.Is(err, txmanager.ErrConflict):
			uc.logger.Warn("CreateReservation: transaction conflict: %v", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrSlotTaken, err)
		case errors.Is(err, txmanager.ErrBeginTx), errors.Is(err, txmanager.ErrCommitTx):
			uc.logger.Error("CreateReservation: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	// 8. Запоминаем ключ в кэше
	if req.IdempotencyKey != nil && uc.idempotency != nil {
		if err := uc.idempotency.Remember(ctx, *req.IdempotencyKey, result.ID); err != nil {
			uc.logger.Warn("CreateReservation: failed to cache idempotency key: %v", err)
		}
	}

	uc.logger.Info("CreateReservation: created reservation id=%d, table=%d, status=%s",
		result.ID, *result.TableID, result.Status)

	return &Response{Reservation: result}, nil
}

// checkSlot проверяет конфигурацию, окно бронирования и принадлежность времени к слотам дня.
// Ошибка конфигурации в любом дне недели блокирует бронирование на любую дату.
func (uc *UseCase) checkSlot(matcher *availability.Matcher, now time.Time, req *Request) error {
	if err := matcher.Validate(); err != nil {
		uc.logger.Error("CreateReservation: configuration error: %v", err)
		return err
	}

	if err := req.StartTime.Validate(); err != nil {
		uc.logger.Warn("CreateReservation: invalid start time %q: %v", req.StartTime, err)
		return fmt.Errorf("%w: %v", domain.ErrInvalidSlot, err)
	}

	if err := matcher.CheckWindow(now, req.Date, req.StartTime); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		return err
	}

	plan, err := matcher.Slots().Plan(req.Date)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			uc.logger.Error("CreateReservation: configuration error: %v", err)
			return err
		}
		return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
	}

	if plan.Status == availability.DayNoFit {
		err := domain.NewConfigurationError("default_reservation_duration",
			"%d minutes does not fit into opening hours %s-%s on %s",
			matcher.Policy().DefaultDurationMinutes, plan.Hours.Open, plan.Hours.Close, req.Date.Format(domain.DateFormat))
		uc.logger.Error("CreateReservation: configuration error: %v", err)
		return err
	}

	if !plan.Contains(req.StartTime) {
		uc.logger.Warn("CreateReservation: %s is not a slot on %s", req.StartTime, req.Date.Format(domain.DateFormat))
		return fmt.Errorf("%w: %s on %s", domain.ErrInvalidSlot, req.StartTime, req.Date.Format(domain.DateFormat))
	}
	return nil
}

// findByIdempotencyKey ищет бронь по ключу: сначала в кэше, затем в БД
func (uc *UseCase) findByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error) {
	if uc.idempotency != nil {
		id, found, err := uc.idempotency.Lookup(ctx, key)
		switch {
		case err != nil:
			uc.logger.Warn("CreateReservation: idempotency cache unavailable: %v", err)
		case found:
			reservation, err := uc.reservationRepo.GetByID(ctx, id)
			if err == nil {
				return reservation, nil
			}
			if !errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Error("CreateReservation: failed to get reservation id=%d: %v", id, err)
				return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
			}
		}
	}

	reservation, err := uc.reservationRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, nil
		}
		uc.logger.Error("CreateReservation: failed to get reservation by idempotency key: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservation by idempotency key: %v", ErrInternal, err)
	}
	return reservation, nil
}

// replayDuplicate возвращает бронь, вставленную параллельным запросом с тем же ключом
func (uc *UseCase) replayDuplicate(ctx context.Context, key string) (*Response, error) {
	existing, err := uc.findByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		uc.logger.Error("CreateReservation: duplicate idempotency key but no reservation found")
		return nil, fmt.Errorf("%w: duplicate idempotency key without reservation", ErrInternal)
	}

	uc.logger.Info("CreateReservation: concurrent request with the same key won, returning reservation id=%d", existing.ID)
	return &Response{Reservation: existing, Replayed: true}, nil
}

// fillContact дополняет контакт данными профиля пользователя
func (uc *UseCase) fillContact(ctx context.Context, req *Request) {
	contact, err := uc.userClient.GetContactWithGracefulDegradation(ctx, *req.UserID)
	if err != nil {
		uc.logger.Warn("CreateReservation: no contact for user=%d: %v", *req.UserID, err)
		return
	}

	if req.ContactName == "" {
		req.ContactName = contact.Name
	}
	if req.ContactPhone == "" {
		req.ContactPhone = contact.Phone
	}
	if req.ContactEmail == nil {
		req.ContactEmail = contact.Email
	}
}

// storageError переводит ошибки репозитория в результаты use case
func (uc *UseCase) storageError(op string, err error) error {
	switch {
	case errors.Is(err, reservationRepo.ErrDuplicateIdempotencyKey):
		return errDuplicateKey
	case errors.Is(err, reservationRepo.ErrOverlap), errors.Is(err, reservationRepo.ErrConflict):
		uc.logger.Warn("CreateReservation: %s: concurrent booking: %v", op, err)
		return fmt.Errorf("%w: %v", domain.ErrSlotTaken, err)
	}
	uc.logger.Error("CreateReservation: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

func (uc *UseCase) initialStatus() domain.ReservationStatus {
	if uc.autoConfirm {
		return domain.StatusConfirmed
	}
	return domain.StatusPending
}

func formatUserID(userID *int64) string {
	if userID == nil {
		return "guest"
	}
	return fmt.Sprint(*userID)
}
