package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"compliance_notification_service/internal/app"
	"compliance_notification_service/internal/domain/alert"
	"compliance_notification_service/internal/infra/config"
	idb "compliance_notification_service/internal/infra/database"
	infraEmail "compliance_notification_service/internal/infra/email"
	"compliance_notification_service/internal/infra/httpapi"
	"compliance_notification_service/internal/infra/logger"
	"compliance_notification_service/internal/infra/scheduler"
	"compliance_notification_service/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger config isn't available yet; write straight to stderr.
		os.Stderr.WriteString("FATAL: could not load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.Infof("Compliance notification service starting (env: %s)", cfg.Environment)

	if cfg.CronSecret == "" {
		log.Warn("CRON_SECRET is not set; the cron endpoint will refuse all requests")
	}
	if cfg.ResendAPIKey == "" {
		log.Warn("RESEND_API_KEY is not set; reminder runs will refuse to send")
	}

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established.")

	complianceRepo := idb.NewPostgresComplianceRepository(db)
	agencyRepo := idb.NewPostgresAgencyRepository(db)
	profileRepo := idb.NewPostgresProfileRepository(db)

	emailClient := infraEmail.NewResendClient(cfg.ResendAPIKey, cfg.EmailFrom, log)

	reminderService := app.NewReminderService(complianceRepo, agencyRepo, profileRepo, emailClient, log, cfg.SiteURL)

	var notifier alert.Notifier = alert.NoopNotifier{}
	if cfg.TelegramToken != "" && cfg.AdminChatID != 0 {
		tgNotifier, err := telegram.NewNotifier(cfg.TelegramToken, cfg.AdminChatID)
		if err != nil {
			log.Warnf("Could not initialize Telegram notifier, continuing without ops alerts: %v", err)
		} else {
			notifier = tgNotifier
			log.Info("Telegram ops notifier initialized.")
		}
	}

	reminderScheduler := scheduler.NewReminderScheduler(reminderService, notifier, log, cfg.CronSpecExpiration)
	if err := reminderScheduler.Start(); err != nil {
		log.Fatalf("Could not start reminder scheduler: %v", err)
	}

	cronHandler := httpapi.NewCronHandler(cfg, reminderService, log)
	router := httpapi.NewRouter(cronHandler, db, log)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	reminderScheduler.Stop()
	log.Info("Service shut down gracefully.")
}
