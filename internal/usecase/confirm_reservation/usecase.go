package confirm_reservation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case подтверждения ожидающей брони сотрудником.
// Перед подтверждением стол перепроверяется под блокировкой (стол, дата);
// если его заняли, бронь пересаживается на другой подходящий стол.
type UseCase struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	settings        SettingsProvider
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		settings:        settings,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case подтверждения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmReservation: id=%d by user=%d (%s)", req.ReservationID, req.Actor.UserID, req.Actor.Role)

	// 1. Валидация входных данных
	if req.ReservationID <= 0 {
		return nil, fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if !req.Actor.IsStaff() {
		uc.logger.Warn("ConfirmReservation: user=%d is not staff", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	// 2. Политика и календарь
	matcher, err := uc.settings.Matcher(ctx)
	if err != nil {
		uc.logger.Error("ConfirmReservation: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	var resp Response

	// 3. Подтверждение в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем строку брони (FOR UPDATE)
		reservation, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("ConfirmReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			return uc.storageError("get reservation", err)
		}

		// 3.2. Переход допустим только из pending
		if _, err := reservation.Status.Apply(domain.EventConfirm); err != nil {
			uc.logger.Warn("ConfirmReservation: reservation id=%d: %v", reservation.ID, err)
			return err
		}

		// 3.3. Активные столы: выведенный из работы стол считается занятым
		tables, err := uc.tableRepo.ListActive(txCtx)
		if err != nil {
			uc.logger.Error("ConfirmReservation: failed to get tables: %v", err)
			return fmt.Errorf("%w: failed to get tables: %v", ErrInternal, err)
		}

		// 3.4. Предварительный стол, если он ещё активен и свободен
		tableID, err := uc.keepTentativeTable(txCtx, matcher, reservation, tables)
		if err != nil {
			return err
		}

		// 3.5. Иначе ищем другой стол для того же окна
		if tableID == 0 {
			tableID, err = uc.findReplacementTable(txCtx, matcher, reservation, tables)
			if err != nil {
				return err
			}
			resp.Reassigned = true
		}

		// 3.6. Сохраняем подтверждение
		reservation.TableID = &tableID
		if err := reservation.Transition(domain.EventConfirm); err != nil {
			return err
		}

		if err := uc.reservationRepo.Update(txCtx, reservation); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return uc.storageError("update reservation", err)
		}

		resp.Reservation = reservation
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConflict) {
			uc.logger.Warn("ConfirmReservation: transaction conflict: %v", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrSlotTaken, err)
		}
		if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
			uc.logger.Error("ConfirmReservation: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.metrics.IncReservationTransition(string(domain.EventConfirm))
	uc.logger.Info("ConfirmReservation: reservation id=%d confirmed on table=%d, reassigned=%t",
		resp.Reservation.ID, *resp.Reservation.TableID, resp.Reassigned)

	return &resp, nil
}

// keepTentativeTable возвращает id предварительного стола, если он активен, вмещает компанию и свободен, иначе 0
func (uc *UseCase) keepTentativeTable(ctx context.Context, matcher *availability.Matcher, reservation *domain.Reservation, tables []*domain.Table) (int64, error) {
	if reservation.TableID == nil {
		return 0, nil
	}

	idx := slices.IndexFunc(tables, func(table *domain.Table) bool {
		return table.ID == *reservation.TableID
	})
	if idx < 0 || !tables[idx].Seats(reservation.PartySize) {
		uc.logger.Warn("ConfirmReservation: tentative table id=%d is inactive or too small for party of %d",
			*reservation.TableID, reservation.PartySize)
		return 0, nil
	}

	free, err := uc.lockAndCheck(ctx, matcher, reservation, *reservation.TableID)
	if err != nil {
		return 0, err
	}
	if !free {
		uc.logger.Warn("ConfirmReservation: tentative table id=%d is taken at %s", *reservation.TableID, reservation.Window())
		return 0, nil
	}
	return *reservation.TableID, nil
}

// findReplacementTable подбирает другой свободный стол best-fit для окна брони
func (uc *UseCase) findReplacementTable(ctx context.Context, matcher *availability.Matcher, reservation *domain.Reservation, tables []*domain.Table) (int64, error) {
	confirmed, err := uc.reservationRepo.GetConfirmedByDate(ctx, reservation.Date)
	if err != nil {
		return 0, uc.storageError("get reservations", err)
	}

	candidates := matcher.FreeTables(reservation.Date, reservation.PartySize, reservation.Window(), tables, confirmed)
	for _, table := range candidates {
		if reservation.IsOnTable(table.ID) {
			continue
		}
		free, err := uc.lockAndCheck(ctx, matcher, reservation, table.ID)
		if err != nil {
			return 0, err
		}
		if free {
			return table.ID, nil
		}
	}

	uc.logger.Warn("ConfirmReservation: no table left for reservation id=%d at %s", reservation.ID, reservation.Window())
	return 0, fmt.Errorf("%w: no table for party of %d at %s", domain.ErrSlotTaken, reservation.PartySize, reservation.Window())
}

// lockAndCheck блокирует (стол, дата) и проверяет по журналу стола из снимка транзакции, что окно брони свободно
func (uc *UseCase) lockAndCheck(ctx context.Context, matcher *availability.Matcher, reservation *domain.Reservation, tableID int64) (bool, error) {
	if err := uc.reservationRepo.LockTableDay(ctx, tableID, reservation.Date); err != nil {
		return false, uc.storageError("lock table", err)
	}

	ledger, err := uc.reservationRepo.GetConfirmedByTableAndDate(ctx, tableID, reservation.Date)
	if err != nil {
		return false, uc.storageError("get table reservations", err)
	}

	return matcher.IsTableFree(tableID, reservation.Date, reservation.Window(), ledger), nil
}

// storageError переводит ошибки репозитория в результаты use case
func (uc *UseCase) storageError(op string, err error) error {
	if errors.Is(err, reservationRepo.ErrOverlap) || errors.Is(err, reservationRepo.ErrConflict) {
		uc.logger.Warn("ConfirmReservation: %s: concurrent booking: %v", op, err)
		return fmt.Errorf("%w: %v", domain.ErrSlotTaken, err)
	}
	uc.logger.Error("ConfirmReservation: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}
