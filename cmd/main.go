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

	cancelAppointmentHandler "github.com/m04kA/DCP-BookingEngine/internal/api/handlers/cancel_appointment"
	confirmAppointmentHandler "github.com/m04kA/DCP-BookingEngine/internal/api/handlers/confirm_appointment"
	confirmBulkHandler "github.com/m04kA/DCP-BookingEngine/internal/api/handlers/confirm_appointments_bulk"
	getAppointmentHandler "github.com/m04kA/DCP-BookingEngine/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/DCP-BookingEngine/internal/api/handlers/get_available_slots"
	getPatientAppointmentsHandler "github.com/m04kA/DCP-BookingEngine/internal/api/handlers/get_patient_appointments"
	submitBookingHandler "github.com/m04kA/DCP-BookingEngine/internal/api/handlers/submit_booking"
	"github.com/m04kA/DCP-BookingEngine/internal/api/middleware"
	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/config"
	appointmentRepo "github.com/m04kA/DCP-BookingEngine/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/DCP-BookingEngine/internal/infra/storage/schedule"
	treatmentRepo "github.com/m04kA/DCP-BookingEngine/internal/infra/storage/treatment"
	"github.com/m04kA/DCP-BookingEngine/internal/integrations/holidayapi"
	"github.com/m04kA/DCP-BookingEngine/internal/integrations/notifier"
	"github.com/m04kA/DCP-BookingEngine/internal/schedule"
	appointmentsService "github.com/m04kA/DCP-BookingEngine/internal/service/appointments"
	confirmAppointmentUC "github.com/m04kA/DCP-BookingEngine/internal/usecase/confirm_appointment"
	confirmBulkUC "github.com/m04kA/DCP-BookingEngine/internal/usecase/confirm_appointments_bulk"
	getAvailableSlotsUC "github.com/m04kA/DCP-BookingEngine/internal/usecase/get_available_slots"
	submitBookingUC "github.com/m04kA/DCP-BookingEngine/internal/usecase/submit_booking"
	"github.com/m04kA/DCP-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/DCP-BookingEngine/pkg/logger"
	"github.com/m04kA/DCP-BookingEngine/pkg/metrics"
	"github.com/m04kA/DCP-BookingEngine/pkg/simpletxmanager"
	"github.com/m04kA/DCP-BookingEngine/pkg/txmanager"
)

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

	log.Info("Starting DCP-BookingEngine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Клиент календаря государственных праздников
	holidayClient := holidayapi.NewClient(
		cfg.HolidayAPI.URL,
		cfg.HolidayAPI.CountryCode,
		time.Duration(cfg.HolidayAPI.Timeout)*time.Second,
		log,
	)
	log.Info("Holiday API client initialized (url=%s, country=%s)", cfg.HolidayAPI.URL, cfg.HolidayAPI.CountryCode)

	// Email уведомления пациентам (best-effort)
	var bookingNotifier submitBookingUC.Notifier
	var confirmNotifier confirmAppointmentUC.Notifier
	if cfg.Notifications.SendGridAPIKey != "" {
		sg := notifier.NewSendGridNotifier(notifier.Config{
			APIKey:    cfg.Notifications.SendGridAPIKey,
			FromEmail: cfg.Notifications.FromEmail,
			FromName:  cfg.Notifications.FromName,
		}, log)
		bookingNotifier = sg
		confirmNotifier = sg
		log.Info("SendGrid notifications enabled (from=%s)", cfg.Notifications.FromEmail)
	} else {
		noop := notifier.NewNoopNotifier(log)
		bookingNotifier = noop
		confirmNotifier = noop
		log.Info("Notifications disabled, using no-op notifier")
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		treatmentRepository   *treatmentRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		treatmentRepository = treatmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		treatmentRepository = treatmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Резолвер расписания и проверка вместимости
	scheduleResolver := schedule.NewResolver(scheduleRepository, holidayClient, log)
	capacityChecker := capacity.NewChecker(appointmentRepository, log)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleResolver,
		treatmentRepository,
		capacityChecker,
		log,
	)

	submitBookingUseCase := submitBookingUC.NewUseCase(
		appointmentRepository,
		treatmentRepository,
		capacityChecker,
		txMgr,
		bookingNotifier,
		log,
	)

	confirmAppointmentUseCase := confirmAppointmentUC.NewUseCase(
		appointmentRepository,
		treatmentRepository,
		capacityChecker,
		txMgr,
		confirmNotifier,
		log,
	)

	confirmBulkUseCase := confirmBulkUC.NewUseCase(
		appointmentRepository,
		confirmAppointmentUseCase,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(confirmAppointmentUseCase, log)
	confirmBulk := confirmBulkHandler.NewHandler(confirmBulkUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты на дату
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PATIENT ROUTES (требуют X-User-Email header)
	// ============================================================

	patient := api.PathPrefix("").Subrouter()
	patient.Use(middleware.Auth)

	// Создание заявки на запись
	patient.HandleFunc("/appointments", submitBooking.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	patient.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи пациентом
	patient.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей пациента
	patient.HandleFunc("/patients/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-ID header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth)

	// Подтверждение записи с выбором предпочтения
	admin.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPatch)

	// Пакетное подтверждение записей
	admin.HandleFunc("/appointments/confirm-bulk", confirmBulk.Handle).Methods(http.MethodPost)

	// Получение любой записи администратором
	admin.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи от имени клиники
	admin.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
