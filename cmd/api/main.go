package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/cartercar/booking-service/internal/api/router"
	"github.com/cartercar/booking-service/internal/booking"
	appconfig "github.com/cartercar/booking-service/internal/config"
	"github.com/cartercar/booking-service/internal/messaging/twilioclient"
	"github.com/cartercar/booking-service/internal/notify"
	"github.com/cartercar/booking-service/internal/observability/metrics"
	"github.com/cartercar/booking-service/internal/schedule"
	"github.com/cartercar/booking-service/internal/sheetstore"
	"github.com/cartercar/booking-service/pkg/logging"
)

func main() {
	// Load configuration (.env is optional)
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-service API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Google clients share one set of credentials. Without an explicit
	// credentials file the clients fall back to application default
	// credentials.
	var googleOpts []option.ClientOption
	if cfg.GoogleCredentialsFile != "" {
		googleOpts = append(googleOpts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}

	sheetsSvc, err := sheets.NewService(ctx, googleOpts...)
	if err != nil {
		logger.Error("failed to create sheets client", "error", err)
		os.Exit(1)
	}
	calendarSvc, err := calendar.NewService(ctx, googleOpts...)
	if err != nil {
		logger.Error("failed to create calendar client", "error", err)
		os.Exit(1)
	}

	store := sheetstore.New(sheetsSvc, cfg.SpreadsheetID, cfg.SheetName, logger)
	scheduler := schedule.New(calendarSvc, cfg.CalendarID, logger)

	// SMS is optional: without credentials the alert step degrades to a
	// recorded failure instead of blocking startup.
	var smsClient notify.SMSClient
	if cfg.HasTwilio() {
		tc, err := twilioclient.New(twilioclient.Config{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			Logger:     logger.Logger,
		})
		if err != nil {
			logger.Error("failed to create twilio client", "error", err)
			os.Exit(1)
		}
		smsClient = tc
	} else {
		logger.Warn("twilio credentials not configured, SMS alerts disabled")
	}

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		logger.Warn("sendgrid not configured, using stub email sender")
		emailSender = notify.NewStubEmailSender(logger)
	}

	notifier := notify.NewService(emailSender, smsClient, notify.Config{
		BusinessPhone: cfg.BusinessPhone,
		BusinessEmail: cfg.BusinessEmail,
		SMSFromNumber: cfg.TwilioFromNumber,
	}, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)
	svc := booking.NewService(store, scheduler, notifier, notifier, logger, bookingMetrics)
	bookingHandler := booking.NewHandler(svc, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     bookingHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
