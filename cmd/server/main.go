package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier/internal/app"
	"courier/internal/config"
	"courier/internal/domain/notification"
	"courier/internal/logging"
	"courier/internal/metrics"
	"courier/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logCloser := logging.Setup(app.LogOptions(cfg))
	defer logCloser.Close()

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"email_enabled", cfg.Notification.EmailEnabled,
		"sms_enabled", cfg.Notification.SMSEnabled,
	)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	var (
		opts     []notification.Option
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, notification.WithRecorder(metrics.New(reg)))
		gatherer = reg
		slog.Info("metrics enabled", "path", "/metrics")
	}

	dispatcher, err := app.NewDispatcher(cfg, opts...)
	if err != nil {
		slog.Error("failed to initialize dispatcher", "error", err)
		os.Exit(1)
	}
	slog.Info("dispatcher initialized",
		"email_templates", len(dispatcher.Templates().Names(notification.ChannelEmail)),
		"sms_templates", len(dispatcher.Templates().Names(notification.ChannelSMS)),
	)

	notificationHandler := notification.NewHandler(dispatcher)

	r := router.New(cfg, notificationHandler, gatherer)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
