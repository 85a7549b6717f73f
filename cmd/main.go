package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/delete_booking"
	downloadReportHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/download_report"
	generateReportHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/generate_report"
	getBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_booking"
	getBookingsByFilterHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_bookings_by_filter"
	getRoomBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_room_bookings"
	listBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/list_bookings"
	updateBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/routes"
	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/reports"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/notification"
	bookingsService "github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	generateReportUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/generate_report"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

const defaultConfigPath = "config.toml"

func main() {
	configPath := defaultConfigPath
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		configPath = env
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-RoomBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
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
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	applied, err := migrations.Apply(context.Background(), db, cfg.Database.MigrationsDir, log)
	if err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Migrations applied: %d (dir=%q)", applied, cfg.Database.MigrationsDir)

	// При выключенных метриках обёртка работает как прозрачный адаптер
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Хранилище отчётов
	if err := os.MkdirAll(cfg.Reports.Dir, 0o755); err != nil {
		log.Fatal("Failed to create reports dir %s: %v", cfg.Reports.Dir, err)
	}
	reportStore := reports.NewStore(cfg.Reports.Dir, cfg.Reports.DelimiterRune())
	log.Info("Reports are stored in %s", reportStore.Dir())

	// Канал уведомлений
	notifier, closeNotifier, err := newNotifier(cfg.Notification, log)
	if err != nil {
		log.Fatal("Failed to initialize notifier: %v", err)
	}
	defer closeNotifier()
	log.Info("Report notifications via %s", notifier.Channel())

	// Репозитории, сервисы и use cases
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, log)
	generateReportUseCase := generateReportUC.NewUseCase(
		bookingRepository,
		reportStore,
		notifier,
		txMgr,
		metricsCollector,
		cfg.Reports.BatchSize,
		log,
	)

	// Инициализируем handlers
	pageSize, maxPageSize := cfg.Pagination.DefaultSize, cfg.Pagination.MaxSize
	bookingHandlers := routes.BookingHandlers{
		List:           listBookingsHandler.NewHandler(bookingSvc, pageSize, maxPageSize, log),
		Get:            getBookingHandler.NewHandler(bookingSvc, log),
		GetByRoom:      getRoomBookingsHandler.NewHandler(bookingSvc, log),
		GetByFilter:    getBookingsByFilterHandler.NewHandler(bookingSvc, pageSize, maxPageSize, log),
		Create:         createBookingHandler.NewHandler(bookingSvc, log),
		Update:         updateBookingHandler.NewHandler(bookingSvc, log),
		Delete:         deleteBookingHandler.NewHandler(bookingSvc, log),
		Cancel:         cancelBookingHandler.NewHandler(bookingSvc, log),
		DownloadReport: downloadReportHandler.NewHandler(reportStore, log),
		GenerateReport: generateReportHandler.NewHandler(generateReportUseCase, cfg.Server.TrustProxyHeaders, log),
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestLogging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	routes.RegisterBookingRoutes(r, bookingHandlers, middleware.Auth(cfg.Auth.JWTSecret, log))

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

// newNotifier выбирает канал уведомлений по конфигурации
func newNotifier(cfg config.NotificationConfig, log *logger.Logger) (generateReportUC.Notifier, func(), error) {
	switch strings.ToLower(cfg.Channel) {
	case config.ChannelAMQP:
		n := notification.NewAMQPNotifier(cfg.AMQP.URL, cfg.AMQP.Queue, log)
		return n, func() {
			if err := n.Close(); err != nil {
				log.Warn("Failed to close AMQP notifier: %v", err)
			}
		}, nil
	default:
		n, err := notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  time.Duration(cfg.SMTP.Timeout) * time.Second,
			TLS:      cfg.SMTP.TLS,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return n, func() {}, nil
	}
}
