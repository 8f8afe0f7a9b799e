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

	"workflow-runchart/internal/history/config"
	"workflow-runchart/internal/history/repository"
	"workflow-runchart/internal/history/service"
	"workflow-runchart/pkg/logger"
	"workflow-runchart/pkg/telegram"
)

var (
	configPath string
	owner      string
	repo       string
	workflowID string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Appends new workflow runs to the history once and exits",
	RunE:  runOnce,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the history sync on its cron schedule",
	Run:   runServe,
}

type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	syncSvc service.SyncService
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if owner != "" {
		cfg.GitHub.Owner = owner
		if cfg.Gist.Owner == "" {
			cfg.Gist.Owner = owner
		}
	}
	if repo != "" {
		cfg.GitHub.Repo = repo
	}
	if workflowID != "" {
		cfg.GitHub.WorkflowID = workflowID
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	notifier, err := telegram.NewNotifier(cfg.Telegram)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
	}

	githubRepo := repository.NewGitHubRepository(cfg, appLogger)
	gistRepo := repository.NewGistRepository(cfg, appLogger)
	syncSvc, err := service.NewSyncService(githubRepo, gistRepo, notifier, appLogger, cfg)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: appLogger, syncSvc: syncSvc}, nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	result, err := a.syncSvc.Sync(ctx)
	if err != nil {
		a.logger.Error("History sync failed", logger.ErrorField(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %d run(s), %d incomplete, %d in history\n",
		len(result.Added), result.Incomplete, result.Total)
	return nil
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup()
	if err != nil {
		log.Fatalf("Failed to start history sync: %v", err)
	}
	defer func() { _ = a.logger.Sync() }()

	a.logger.Info("Starting History Sync Service",
		logger.Field("name", a.cfg.App.Name),
		logger.StringField("schedule", a.cfg.Sync.Schedule),
	)

	schedulerSvc, err := service.NewSchedulerService(a.syncSvc, a.logger, a.cfg.Sync.Schedule)
	if err != nil {
		a.logger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "next_sync": schedulerSvc.Next()})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		a.logger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Blocks until the context is canceled
	schedulerSvc.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	a.logger.Info("History sync service exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "history-sync", SilenceUsage: true}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-history.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", "", "GitHub repository owner (overrides github.owner)")
	rootCmd.PersistentFlags().StringVar(&repo, "repo", "", "GitHub repository name (overrides github.repo)")
	rootCmd.PersistentFlags().StringVar(&workflowID, "id", "", "GitHub workflow ID (overrides github.workflow_id)")

	rootCmd.AddCommand(runCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing history-sync CLI: %s\n", err)
		os.Exit(1)
	}
}
