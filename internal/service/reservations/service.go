package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// completeBatchSize сколько бронирований завершается в одной транзакции
const completeBatchSize = 100

// Service сервис жизненного цикла бронирований: просмотр, отмена, отклонение, завершение
type Service struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		settings:        settings,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, сотрудник - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, actor.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !canAccess(reservation, actor) {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(reservation), nil
}

// ListByDate получает бронирования на дату, упорядоченные по времени начала.
// Доступно только сотрудникам.
func (s *Service) ListByDate(ctx context.Context, req *models.ListByDateRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByDate: fetching reservations for date=%s, status=%v", req.Date.Format(domain.DateFormat), req.Status)

	if !req.Actor.IsStaff() {
		s.logger.Warn("ListByDate: user=%d is not staff", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	statuses, err := models.ToDomainStatuses(req.Status)
	if err != nil {
		s.logger.Warn("ListByDate: invalid status filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	date := domain.DateOf(req.Date)
	reservations, err := s.reservationRepo.List(ctx, domain.ReservationsFilter{
		Date:     &date,
		Statuses: statuses,
	})
	if err != nil {
		s.logger.Error("ListByDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDate: fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// ListByUser получает историю бронирований пользователя (сначала новые).
// Доступно самому пользователю и сотрудникам.
func (s *Service) ListByUser(ctx context.Context, req *models.ListByUserRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByUser: fetching reservations for user=%d by user=%d", req.UserID, req.Actor.UserID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if !req.Actor.IsStaff() && req.Actor.UserID != req.UserID {
		s.logger.Warn("ListByUser: access denied for user=%d to reservations of user=%d", req.Actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	statuses, err := models.ToDomainStatuses(req.Status)
	if err != nil {
		s.logger.Warn("ListByUser: invalid status filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	userID := req.UserID
	reservations, err := s.reservationRepo.List(ctx, domain.ReservationsFilter{
		UserID:   &userID,
		Statuses: statuses,
	})
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByUser: fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование.
// Клиент может отменить только своё бронирование, сотрудник - любое.
// Подтверждённую бронь нельзя отменить позже, чем за MinHoursInAdvance до начала.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d (%s)", id, req.Actor.UserID, req.Actor.Role)

	policy, err := s.settings.Policy(ctx)
	if err != nil {
		s.logger.Error("Cancel: failed to load policy: %v", err)
		return nil, fmt.Errorf("%w: Cancel - failed to load policy: %v", ErrInternal, err)
	}
	loc := s.settings.Location()

	return s.transition(ctx, "Cancel", domain.EventCancel, id, func(reservation *domain.Reservation) error {
		// Проверяем права доступа
		if !canAccess(reservation, req.Actor) {
			s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", req.Actor.UserID, id)
			return ErrAccessDenied
		}

		now := s.timeProvider.Now()
		if err := reservation.CheckCancellable(now, loc, policy.MinHoursInAdvance); err != nil {
			s.logger.Warn("Cancel: reservation id=%d: %v", id, err)
			return err
		}

		return reservation.MarkCancelled(domain.EventCancel, req.Actor.Role, req.Reason, now)
	})
}

// Reject отклоняет ожидающее бронирование. Доступно только сотрудникам.
func (s *Service) Reject(ctx context.Context, id int64, req *models.CancelRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Reject: rejecting reservation id=%d by user=%d", id, req.Actor.UserID)

	if !req.Actor.IsStaff() {
		s.logger.Warn("Reject: user=%d is not staff", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	return s.transition(ctx, "Reject", domain.EventReject, id, func(reservation *domain.Reservation) error {
		return reservation.MarkCancelled(domain.EventReject, req.Actor.Role, req.Reason, s.timeProvider.Now())
	})
}

// Complete вручную завершает подтверждённое бронирование. Доступно только сотрудникам.
func (s *Service) Complete(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("Complete: completing reservation id=%d by user=%d", id, actor.UserID)

	if !actor.IsStaff() {
		s.logger.Warn("Complete: user=%d is not staff", actor.UserID)
		return nil, ErrAccessDenied
	}

	return s.transition(ctx, "Complete", domain.EventComplete, id, func(reservation *domain.Reservation) error {
		return reservation.Transition(domain.EventComplete)
	})
}

// CompleteEnded переводит в completed все подтверждённые бронирования, чьё время окончания прошло.
// Каждая пачка обрабатывается в отдельной транзакции.
func (s *Service) CompleteEnded(ctx context.Context) (*models.CompleteEndedResponse, error) {
	now := s.timeProvider.Now()
	loc := s.settings.Location()
	s.logger.Info("CompleteEnded: completing reservations ended by %s", now.In(loc).Format("2006-01-02 15:04"))

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return &models.CompleteEndedResponse{Completed: total}, err
		}

		var batch int
		err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			ended, err := s.reservationRepo.GetEndedConfirmed(txCtx, now, loc, completeBatchSize)
			if err != nil {
				return fmt.Errorf("%w: CompleteEnded - get ended reservations: %v", ErrInternal, err)
			}

			for _, reservation := range ended {
				if err := reservation.Transition(domain.EventComplete); err != nil {
					return err
				}
				if err := s.reservationRepo.Update(txCtx, reservation); err != nil {
					return fmt.Errorf("%w: CompleteEnded - update reservation id=%d: %v", ErrInternal, reservation.ID, err)
				}
			}

			batch = len(ended)
			return nil
		})
		if err != nil {
			s.logger.Error("CompleteEnded: batch failed after %d completed: %v", total, err)
			return &models.CompleteEndedResponse{Completed: total}, err
		}

		total += batch
		for i := 0; i < batch; i++ {
			s.metrics.IncReservationTransition(string(domain.EventComplete))
		}

		if batch < completeBatchSize {
			break
		}
	}

	s.logger.Info("CompleteEnded: completed %d reservations", total)
	return &models.CompleteEndedResponse{Completed: total}, nil
}

// Вспомогательные методы

// transition блокирует строку бронирования, применяет apply и сохраняет результат.
// Для брони со столом берётся блокировка (стол, дата), как и при бронировании.
func (s *Service) transition(ctx context.Context, op string, event domain.Event, id int64, apply func(reservation *domain.Reservation) error) (*models.ReservationResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	var result *domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем строку бронирования (FOR UPDATE)
		reservation, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("%s: reservation id=%d not found", op, id)
				return ErrReservationNotFound
			}
			return storageError(op, "get reservation", err)
		}

		// 2. Проверки и переход статуса
		if err := apply(reservation); err != nil {
			return err
		}

		// 3. Блокировка (стол, дата)
		if reservation.TableID != nil {
			if err := s.reservationRepo.LockTableDay(txCtx, *reservation.TableID, reservation.Date); err != nil {
				return storageError(op, "lock table", err)
			}
		}

		// 4. Сохраняем
		if err := s.reservationRepo.Update(txCtx, reservation); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return storageError(op, "update reservation", err)
		}

		result = reservation
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, txmanager.ErrConflict):
			// Бронь параллельно изменили: повторный запрос увидит новый статус
			s.logger.Warn("%s: concurrent update of reservation id=%d: %v", op, id, err)
			return nil, fmt.Errorf("%w: concurrent update: %v", domain.ErrInvalidTransition, err)
		case errors.Is(err, txmanager.ErrBeginTx), errors.Is(err, txmanager.ErrCommitTx):
			s.logger.Error("%s: transaction failed for reservation id=%d: %v", op, id, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		case errors.Is(err, ErrInternal):
			s.logger.Error("%s: reservation id=%d: %v", op, id, err)
		case errors.Is(err, domain.ErrInvalidTransition):
			s.logger.Warn("%s: reservation id=%d: %v", op, id, err)
		}
		return nil, err
	}

	s.metrics.IncReservationTransition(string(event))
	s.logger.Info("%s: reservation id=%d is now %s", op, id, result.Status)
	return models.FromDomainReservation(result), nil
}

// storageError переводит ошибки репозитория в ошибки сервиса
func storageError(op, action string, err error) error {
	if errors.Is(err, reservationRepo.ErrConflict) {
		return fmt.Errorf("%w: %s - %s: %v", txmanager.ErrConflict, op, action, err)
	}
	return fmt.Errorf("%w: %s - %s: %v", ErrInternal, op, action, err)
}

// canAccess клиент видит только свои бронирования, сотрудник - любые
func canAccess(reservation *domain.Reservation, actor domain.Actor) bool {
	return actor.IsStaff() || reservation.IsOwnedBy(actor.UserID)
}
