package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"workflow-runchart/internal/chart/config"
	delivery "workflow-runchart/internal/chart/delivery/http"
	"workflow-runchart/internal/chart/repository"
	"workflow-runchart/internal/chart/service"
	"workflow-runchart/pkg/logger"
	"workflow-runchart/pkg/redis"
	"workflow-runchart/pkg/utils"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the run history chart service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Chart Service", logger.Field("name", cfg.App.Name))

	loc, err := utils.LoadLocation(cfg.Chart.TimeZone)
	if err != nil {
		appLogger.Warn("Unknown time zone, using UTC", logger.StringField("time_zone", cfg.Chart.TimeZone), logger.ErrorField(err))
	}

	// Initialize session store
	var sessionRepo repository.SessionRepository
	switch cfg.Store.Driver {
	case "redis":
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		sessionRepo = repository.NewRedisSessionRepository(redisClient.Client, cfg.Store.TTL)
	case "memory", "":
		sessionRepo = repository.NewMemorySessionRepository(cfg.Store.TTL)
	default:
		appLogger.Fatal("Invalid session store driver specified in config", logger.StringField("driver", cfg.Store.Driver))
	}

	// Initialize services
	feedRepo := repository.NewFeedRepository(cfg, appLogger)
	chartSvc := service.NewChartService(feedRepo, sessionRepo, appLogger, cfg.Chart.PageSize, loc)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	chartHandler := delivery.NewChartHandler(chartSvc, appLogger, cfg.App.Name)
	chartHandler.RegisterPageRoutes(e.Group(""))

	apiV1 := e.Group("/api/v1")
	chartGroup := apiV1.Group("/chart")
	chartHandler.RegisterRoutes(chartGroup)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "chart-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-chart.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing chart-service CLI: %s\n", err)
		os.Exit(1)
	}
}
