package tables

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	tableRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/table"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables/models"
)

// Service сервис управления столами ресторана
type Service struct {
	tableRepo TableRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса столов
func NewService(tableRepo TableRepository, logger Logger) *Service {
	return &Service{
		tableRepo: tableRepo,
		logger:    logger,
	}
}

// Create добавляет стол. Вместимость после создания не меняется.
func (s *Service) Create(ctx context.Context, req *models.CreateTableRequest) (*models.TableResponse, error) {
	s.logger.Info("Create: adding table capacity=%d, location=%q", req.Capacity, req.Location)

	if req.Capacity < 1 || req.Capacity > domain.MaxTableCapacity {
		s.logger.Warn("Create: invalid capacity=%d", req.Capacity)
		return nil, fmt.Errorf("%w: capacity must be between 1 and %d", ErrInvalidInput, domain.MaxTableCapacity)
	}

	location := strings.TrimSpace(req.Location)
	if utf8.RuneCountInString(location) > domain.MaxLocationLength {
		s.logger.Warn("Create: location is too long")
		return nil, fmt.Errorf("%w: location must be at most %d characters", ErrInvalidInput, domain.MaxLocationLength)
	}

	table, err := s.tableRepo.Create(ctx, &domain.Table{
		Capacity: req.Capacity,
		Location: location,
		Active:   true,
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: table id=%d added", table.ID)
	return models.FromDomainTable(table), nil
}

// List возвращает столы; снятые с обслуживания - только при includeInactive
func (s *Service) List(ctx context.Context, includeInactive bool) (*models.TableListResponse, error) {
	tables, err := s.tableRepo.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d tables, includeInactive=%t", len(tables), includeInactive)
	return models.FromDomainTableList(tables), nil
}

// Delete снимает стол с обслуживания.
// Существующие бронирования сохраняют ссылку на стол; новые на него не назначаются.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deactivating table id=%d", id)

	if id <= 0 {
		return fmt.Errorf("%w: tableID must be positive", ErrInvalidInput)
	}

	if err := s.tableRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			s.logger.Warn("Delete: table id=%d not found", id)
			return ErrTableNotFound
		}
		s.logger.Error("Delete: repository error for table id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: table id=%d deactivated", id)
	return nil
}
