package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hemam-service/internal/calendar"
	"hemam-service/internal/config"
	"hemam-service/internal/dashboard"
	bookingCancel "hemam-service/internal/http-server/handlers/bookings/cancel"
	bookingCreate "hemam-service/internal/http-server/handlers/bookings/create"
	dashboardGet "hemam-service/internal/http-server/handlers/dashboard/get"
	messageNotify "hemam-service/internal/http-server/handlers/messages/notify"
	messageReminder "hemam-service/internal/http-server/handlers/messages/reminder"
	messageSchedule "hemam-service/internal/http-server/handlers/messages/schedule"
	messageTemplates "hemam-service/internal/http-server/handlers/messages/templates"
	recurringCreate "hemam-service/internal/http-server/handlers/recurring/create"
	scheduleGet "hemam-service/internal/http-server/handlers/schedule/get"
	scheduleReplace "hemam-service/internal/http-server/handlers/schedule/replace"
	"hemam-service/internal/lock"
	"hemam-service/internal/messaging"
	"hemam-service/internal/observability/metrics"
	svc "hemam-service/internal/service"
	"hemam-service/internal/storage/postgres"
	slogpretty "hemam-service/pkg/handlers/slogPretty"
	mwlogger "hemam-service/pkg/middleware/mwLogger"
	"hemam-service/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)

	slots := calendar.NewStore()
	scheduler := calendar.NewScheduler(slots, storage)
	queue := messaging.NewQueue(nil)
	templates := messaging.NewTemplateRegistry()
	aggregator := dashboard.NewAggregator(slots, storage)

	service := svc.NewService(slots, scheduler, queue, templates, aggregator, locker, engineMetrics, nil)

	dispatcher := &messaging.LogDispatcher{Log: log}
	drainer := messaging.NewDrainer(queue, dispatcher, cfg.Drainer.Interval, log, engineMetrics, nil)

	drainerCtx, stopDrainer := context.WithCancel(context.Background())
	go drainer.Run(drainerCtx)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Schedule
	router.Get("/schedule/{doctorId}", scheduleGet.New(log, service))
	router.Put("/schedule/{doctorId}", scheduleReplace.New(log, service))

	// Bookings
	router.Post("/bookings", bookingCreate.New(log, service))
	router.Post("/bookings/cancel", bookingCancel.New(log, service))

	// Recurring series
	router.Post("/recurring", recurringCreate.New(log, service))

	// Messaging
	router.Post("/messages", messageSchedule.New(log, service))
	router.Post("/messages/reminders", messageReminder.New(log, service))
	router.Post("/messages/notify-family", messageNotify.New(log, service))
	router.Post("/messages/templates", messageTemplates.New(log, service))

	// Dashboard
	router.Get("/dashboard/{doctorId}", dashboardGet.New(log, service))

	// Metrics
	router.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	stopDrainer()

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
