package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/config"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	tableRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/table"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// app общие зависимости команд: конфиг, логгер, БД и репозитории
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics

	sqlDB  *sql.DB
	db     *dbmetrics.DB
	stopCh chan struct{}

	reservations *reservationRepo.Repository
	tables       *tableRepo.Repository
	settingsRepo *settingsRepo.Repository
	txManager    *txmanager.TransactionManager
	settings     *settingsService.Service
}

// newApp загружает конфигурацию и подключается к PostgreSQL.
// withMetrics включает Prometheus метрики, если они разрешены в конфиге.
func newApp(ctx context.Context, configPath string, withMetrics bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)

	a := &app{cfg: cfg, log: log, stopCh: make(chan struct{})}

	if withMetrics && cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	a.sqlDB, err = sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	a.sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	a.sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	a.sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := a.sqlDB.PingContext(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка только прокидывает транзакции через контекст
	if a.metrics != nil {
		a.db = dbmetrics.WrapWithDefault(a.sqlDB, a.metrics, cfg.Database.DBName, a.stopCh)
		log.Info("Database metrics collection started")
	} else {
		a.db = dbmetrics.Wrap(a.sqlDB, nil)
	}

	loc, err := cfg.Reservation.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.reservations = reservationRepo.NewRepository(a.db)
	a.tables = tableRepo.NewRepository(a.db)
	a.settingsRepo = settingsRepo.NewRepository(a.db)
	a.txManager = txmanager.NewTransactionManager(a.db)
	a.settings = settingsService.NewService(a.settingsRepo, loc, log)

	return a, nil
}

// reservationService сервис жизненного цикла броней
func (a *app) reservationService() *reservationsService.Service {
	return reservationsService.NewService(a.reservations, a.settings, a.txManager, a.metrics, a.log)
}

// Close останавливает сбор метрик пула и закрывает соединения
func (a *app) Close() {
	close(a.stopCh)
	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			a.log.Error("Failed to close database: %v", err)
		}
	}
	a.log.Close()
}
