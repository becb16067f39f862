package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"coachcrm/config"
	deliveryhttp "coachcrm/internal/delivery/http"
	"coachcrm/internal/delivery/http/controllers"
	"coachcrm/internal/delivery/http/middleware"
	"coachcrm/internal/jobs"
	"coachcrm/internal/repository/postgres"
	"coachcrm/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn("database not reachable yet", "err", err)
	}
	cancelPing()

	meetingRepo := postgres.NewMeetingRepository(db)
	meetingService := services.NewMeetingService(meetingRepo, cfg.RequestTimeout, cfg.Location)
	meetingController := controllers.NewMeetingController(logger, meetingService, cfg.Location)

	router := deliveryhttp.NewRouter(meetingController)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router))

	agenda := jobs.NewAgendaJob(logger, meetingService, cfg.Location, cfg.RequestTimeout)
	scheduler, err := jobs.NewScheduler(cfg.AgendaCron, cfg.Location, agenda)
	if err != nil {
		logger.Error("agenda schedule", "err", err)
		os.Exit(1)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening",
			"addr", srv.Addr,
			"env", cfg.Environment,
			"calendar_timezone", cfg.Location.String(),
			"agenda_cron", cfg.AgendaCron,
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutdown requested")

	<-scheduler.Stop().Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	logger.Info("bye")
}
