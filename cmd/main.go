package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/api/handlers"
	assignDriverHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/assign_driver"
	cancelBookingHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/get_booking"
	getDashboardStatsHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/get_dashboard_stats"
	listBookingsHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/list_bookings"
	trackBookingHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/track_booking"
	updateBookingStatusHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/update_booking_status"
	updatePaymentStatusHandler "github.com/m04kA/LogiFlow-BookingService/internal/api/handlers/update_payment_status"
	"github.com/m04kA/LogiFlow-BookingService/internal/api/middleware"
	"github.com/m04kA/LogiFlow-BookingService/internal/config"
	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/booking"
	driverRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/driver"
	itemRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/item"
	locationRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/location"
	trackingRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/tracking"
	"github.com/m04kA/LogiFlow-BookingService/internal/integrations/eventbus"
	bookingsService "github.com/m04kA/LogiFlow-BookingService/internal/service/bookings"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/pricing"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/trackingnumber"
	assignDriverUC "github.com/m04kA/LogiFlow-BookingService/internal/usecase/assign_driver"
	createBookingUC "github.com/m04kA/LogiFlow-BookingService/internal/usecase/create_booking"
	updateBookingStatusUC "github.com/m04kA/LogiFlow-BookingService/internal/usecase/update_booking_status"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/logger"
	"github.com/m04kA/LogiFlow-BookingService/pkg/metrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/txmanager"
)

type eventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting LogiFlow-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены). Методы *metrics.Metrics безопасны для nil.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	pingCtx, cancelPing := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Plain(db)
	}

	// Публикация событий
	var publisher eventPublisher = eventbus.NoopPublisher{}
	if cfg.Events.Enabled {
		rabbit, err := eventbus.Dial(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to event bus: %v", err)
		}
		publisher = rabbit
		log.Info("Event publishing enabled (exchange=%s)", cfg.Events.Exchange)
	}
	defer publisher.Close()

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	locationRepository := locationRepo.NewRepository(wrappedDB)
	itemRepository := itemRepo.NewRepository(wrappedDB)
	trackingRepository := trackingRepo.NewRepository(wrappedDB)
	driverRepository := driverRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithTimeout(time.Duration(cfg.Database.QueryTimeout)*time.Second),
		txmanager.WithRetries(cfg.Database.TxMaxRetries, time.Duration(cfg.Database.TxRetryBackoff)*time.Millisecond),
	)

	// Тариф за расстояние
	var distanceRater createBookingUC.DistanceRater
	switch cfg.Pricing.DistanceMode {
	case "haversine":
		distanceRater = pricing.NewHaversineDistanceRate(
			decimal.NewFromFloat(cfg.Pricing.PerKmRate),
			decimal.NewFromFloat(cfg.Pricing.MinimumDistanceCharge),
			decimal.NewFromFloat(cfg.Pricing.FlatDistanceCharge),
		)
	default:
		distanceRater = pricing.NewFlatDistanceRate(decimal.NewFromFloat(cfg.Pricing.FlatDistanceCharge))
	}
	log.Info("Pricing configured (distance_mode=%s)", cfg.Pricing.DistanceMode)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		itemRepository,
		trackingRepository,
		driverRepository,
		publisher,
		txMgr,
		log,
	).WithListLimit(cfg.Booking.ListLimit)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		locationRepository,
		itemRepository,
		trackingRepository,
		pricing.NewCalculator(),
		distanceRater,
		trackingnumber.NewGenerator(cfg.Booking.TrackingNumberPrefix),
		publisher,
		metricsCollector,
		txMgr,
		log,
	).WithTrackingNumberAttempts(cfg.Booking.TrackingNumberAttempts)

	updateStatusUseCase := updateBookingStatusUC.NewUseCase(
		bookingRepository,
		trackingRepository,
		driverRepository,
		publisher,
		metricsCollector,
		txMgr,
		log,
		cfg.Booking.StrictTransitions,
	)

	assignDriverUseCase := assignDriverUC.NewUseCase(
		bookingRepository,
		driverRepository,
		trackingRepository,
		publisher,
		metricsCollector,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getDashboardStats := getDashboardStatsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	trackBooking := trackBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(updateStatusUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(updateStatusUseCase, log)
	assignDriver := assignDriverHandler.NewHandler(assignDriverUseCase, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)

	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			log.Error("GET /health - Database ping failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Отслеживание по трек-номеру
	api.HandleFunc("/track/{trackingNumber}", trackBooking.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticator.Auth)

	customerOrAdmin := middleware.RequireRole(domain.RoleCustomer, domain.RoleAdmin)
	driverOrAdmin := middleware.RequireRole(domain.RoleDriver, domain.RoleAdmin)
	customerOnly := middleware.RequireRole(domain.RoleCustomer)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Бронирования ---
	// Создание бронирования
	protected.Handle("/bookings", customerOrAdmin(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)

	// Список бронирований по роли
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Статистика для дашборда (регистрируется до /bookings/{bookingId})
	protected.HandleFunc("/bookings/stats", getDashboardStats.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)

	// Смена статуса
	protected.Handle("/bookings/{bookingId:[0-9]+}/status",
		driverOrAdmin(http.HandlerFunc(updateBookingStatus.Handle))).Methods(http.MethodPut)

	// Отмена бронирования клиентом
	protected.Handle("/bookings/{bookingId:[0-9]+}/cancel",
		customerOnly(http.HandlerFunc(cancelBooking.Handle))).Methods(http.MethodPatch)

	// --- Администрирование ---
	// Назначение водителя
	protected.Handle("/bookings/{bookingId:[0-9]+}/assign-driver",
		adminOnly(http.HandlerFunc(assignDriver.Handle))).Methods(http.MethodPut)

	// Статус оплаты
	protected.Handle("/bookings/{bookingId:[0-9]+}/payment",
		adminOnly(http.HandlerFunc(updatePaymentStatus.Handle))).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
