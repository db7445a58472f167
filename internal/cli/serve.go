package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	completeReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/complete_reservation"
	confirmReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/confirm_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	createTableHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_table"
	deleteTableHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/delete_table"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_slots"
	getDayStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_day_status"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservations"
	getSettingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_settings"
	getTablesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_tables"
	getUserReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_user_reservations"
	rejectReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/reject_reservation"
	updateBusinessHoursHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_business_hours"
	updatePolicyHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_policy"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/idempotency"
	userServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
	tablesService "github.com/m04kA/SMC-ReservationService/internal/service/tables"
	confirmReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	getDayStatusUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_day_status"
	listAvailableSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/list_available_slots"
)

const startupTimeout = 20 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	a, err := newApp(startCtx, configPath, true)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	log := a.log
	log.Info("Starting SMC-ReservationService %s...", Version)

	loc, err := cfg.Reservation.Location()
	if err != nil {
		return err
	}

	// Кэш ключей идемпотентности (опционально)
	var idempotencyStore createReservationUC.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient := idempotency.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		defer closeRedis(redisClient, log)

		if err := redisClient.Ping(startCtx).Err(); err != nil {
			// Без кэша ключи проверяются только в БД
			log.Warn("Redis unavailable at %s, idempotency cache disabled: %v", cfg.Redis.Address, err)
		} else {
			idempotencyStore = idempotency.NewStore(redisClient, cfg.Reservation.IdempotencyTTL())
			log.Info("Idempotency cache enabled (redis=%s, ttl=%s)", cfg.Redis.Address, cfg.Reservation.IdempotencyTTL())
		}
	}

	// Интеграционный клиент
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	// Сервисы
	reservationSvc := a.reservationService()
	tableSvc := tablesService.NewService(a.tables, log)

	// Use cases
	listAvailableSlotsUseCase := listAvailableSlotsUC.NewUseCase(a.reservations, a.tables, a.settings, a.txManager, log)
	getDayStatusUseCase := getDayStatusUC.NewUseCase(a.settings, log)
	createReservationUseCase := createReservationUC.NewUseCase(
		a.reservations,
		a.tables,
		a.settings,
		idempotencyStore,
		userClient,
		a.txManager,
		a.metrics,
		cfg.Reservation.AutoConfirm,
		log,
	)
	confirmReservationUseCase := confirmReservationUC.NewUseCase(
		a.reservations,
		a.tables,
		a.settings,
		a.txManager,
		a.metrics,
		log,
	)

	// Handlers
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	registerRoutes(r, routeHandlers{
		availableSlots:      getAvailableSlotsHandler.NewHandler(listAvailableSlotsUseCase, log).Handle,
		dayStatus:           getDayStatusHandler.NewHandler(getDayStatusUseCase, log).Handle,
		createReservation:   createReservationHandler.NewHandler(createReservationUseCase, log).Handle,
		getReservation:      getReservationHandler.NewHandler(reservationSvc, log).Handle,
		cancelReservation:   cancelReservationHandler.NewHandler(reservationSvc, log).Handle,
		userReservations:    getUserReservationsHandler.NewHandler(reservationSvc, log).Handle,
		listReservations:    getReservationsHandler.NewHandler(reservationSvc, log).Handle,
		confirmReservation:  confirmReservationHandler.NewHandler(confirmReservationUseCase, log).Handle,
		rejectReservation:   rejectReservationHandler.NewHandler(reservationSvc, log).Handle,
		completeReservation: completeReservationHandler.NewHandler(reservationSvc, log).Handle,
		getSettings:         getSettingsHandler.NewHandler(a.settings, log).Handle,
		updatePolicy:        updatePolicyHandler.NewHandler(a.settings, log).Handle,
		updateBusinessHours: updateBusinessHoursHandler.NewHandler(a.settings, log).Handle,
		listTables:          getTablesHandler.NewHandler(tableSvc, log).Handle,
		createTable:         createTableHandler.NewHandler(tableSvc, log).Handle,
		deleteTable:         deleteTableHandler.NewHandler(tableSvc, log).Handle,
	})

	// Фоновое завершение прошедших броней
	if cfg.Completion.Enabled {
		scheduler, err := startCompletionScheduler(cfg.Completion.Schedule, loc, reservationSvc, log)
		if err != nil {
			return fmt.Errorf("failed to start completion scheduler: %w", err)
		}
		defer func() {
			<-scheduler.Stop().Done()
			log.Info("Completion scheduler stopped")
		}()
		log.Info("Completion scheduler started (schedule=%q)", cfg.Completion.Schedule)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		return err
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

func closeRedis(client *redis.Client, log Logger) {
	if err := client.Close(); err != nil {
		log.Error("Failed to close redis client: %v", err)
	}
}
