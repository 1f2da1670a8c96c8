package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/taskhub-io/taskhub-alerting/pkg/api"
	"github.com/taskhub-io/taskhub-alerting/pkg/channels"
	"github.com/taskhub-io/taskhub-alerting/pkg/config"
	"github.com/taskhub-io/taskhub-alerting/pkg/masking"
	"github.com/taskhub-io/taskhub-alerting/pkg/metrics"
	"github.com/taskhub-io/taskhub-alerting/pkg/rules"
	"github.com/taskhub-io/taskhub-alerting/pkg/services"
)

// @title Taskhub Alerting API
// @version 1.0
// @description API for submitting and inspecting Taskhub operational alerts
// @BasePath /api

func main() {
	// Configure Log Level from Environment Variable
	logLevelStr := os.Getenv("LOG_LEVEL")
	switch strings.ToLower(logLevelStr) {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logrus.SetLevel(logrus.FatalLevel)
	case "panic":
		logrus.SetLevel(logrus.PanicLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel) // Default to Info
	}
	logrus.Infof("Log level set to: %s", logrus.GetLevel().String())

	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Metrics collector
	collector, err := metrics.NewCollector()
	if err != nil {
		logrus.Fatalf("Failed to create metrics collector: %v", err)
	}

	// Initialize the alert service with the built-in rule catalog
	maskCfg := masking.Config{
		Strategy:     masking.Strategy(cfg.Masking.Strategy),
		VisibleChars: cfg.Masking.VisibleChars,
		MaskChar:     cfg.Masking.MaskChar,
	}
	alertService := services.NewAlertService(rules.DefaultCatalog(), maskCfg, collector)

	// Register delivery channels. Channels with missing credentials stay
	// registered; a missing credential is a per-send failure for that
	// channel only.
	alertService.RegisterChannel(channels.NewConsoleChannel())
	alertService.RegisterChannel(channels.NewPagerDutyChannel(cfg.Channels.PagerDuty))
	alertService.RegisterChannel(channels.NewSlackChannel(cfg.Channels.Slack))
	alertService.RegisterChannel(channels.NewEmailChannel(cfg.Channels.Email))

	// Set up the Echo server
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// API routes
	apiHandler := api.NewAPIHandler(alertService)
	apiHandler.SetupRoutes(e)

	// Prometheus exposition
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	// Swagger documentation
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler()))

	// Create HTTP server
	// Use PORT environment variable if available, otherwise use config
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logrus.Infof("Starting server on port %s", port)
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Shutdown the server
	if err := e.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}
