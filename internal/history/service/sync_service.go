package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"workflow-runchart/internal/entity"
	"workflow-runchart/internal/history/config"
	"workflow-runchart/internal/history/dto"
	"workflow-runchart/internal/history/repository"
	"workflow-runchart/pkg/common"
	"workflow-runchart/pkg/logger"
	"workflow-runchart/pkg/metrics"
	"workflow-runchart/pkg/telegram"
)

// SyncResult describes what one sync changed.
type SyncResult struct {
	Added      []entity.HistoryItem
	Incomplete int
	Total      int
	Written    bool
}

// SyncService appends finished workflow runs to the stored history.
type SyncService interface {
	Sync(ctx context.Context) (*SyncResult, error)
}

type syncService struct {
	githubRepo repository.GitHubRepository
	gistRepo   repository.GistRepository
	notifier   telegram.Notifier
	versions   *VersionExtractor
	logger     *logger.Logger
	cfg        *config.Config
}

// NewSyncService creates a SyncService.
func NewSyncService(githubRepo repository.GitHubRepository, gistRepo repository.GistRepository, notifier telegram.Notifier, logger *logger.Logger, cfg *config.Config) (SyncService, error) {
	versions, err := NewVersionExtractor(cfg.Sync.LogFileName, cfg.Sync.VersionPattern)
	if err != nil {
		return nil, err
	}
	return &syncService{
		githubRepo: githubRepo,
		gistRepo:   gistRepo,
		notifier:   notifier,
		versions:   versions,
		logger:     logger,
		cfg:        cfg,
	}, nil
}

// Sync reads the history, records completed runs that are not in it yet and writes
// the history back only when something was added.
func (s *syncService) Sync(ctx context.Context) (result *SyncResult, err error) {
	defer func() {
		added := 0
		if result != nil {
			added = len(result.Added)
		}
		metrics.ObserveHistorySync(added, err)
	}()

	history, err := s.readHistory(ctx)
	if err != nil {
		return nil, err
	}

	runs, err := s.githubRepo.ListWorkflowRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow runs: %w", err)
	}

	result = &SyncResult{}
	var pending []dto.WorkflowRun
	for _, run := range runs {
		if history.Contains(run.RunNumber) {
			continue
		}
		if run.Status != common.StatusCompleted {
			s.logger.InfoContext(ctx, "Skipping run that has not completed",
				logger.IntField("run_number", run.RunNumber),
				logger.StringField("status", run.Status),
			)
			result.Incomplete++
			continue
		}
		pending = append(pending, run)
	}

	if len(pending) == 0 {
		s.logger.InfoContext(ctx, "No new runs to process")
		result.Total = history.Len()
		return result, nil
	}

	items, err := s.buildItems(ctx, pending)
	if err != nil {
		return nil, err
	}
	history.Add(items...)
	result.Total = history.Len()

	if err := s.gistRepo.Write(ctx, history.String()); err != nil {
		return nil, fmt.Errorf("failed to write history: %w", err)
	}
	result.Written = true
	result.Added = items

	s.logger.InfoContext(ctx, "History updated",
		logger.IntField("added", len(items)),
		logger.IntField("total", result.Total),
	)

	s.notifyFailures(ctx, items)
	return result, nil
}

func (s *syncService) readHistory(ctx context.Context) (*History, error) {
	content, err := s.gistRepo.Read(ctx)
	if errors.Is(err, repository.ErrGistFileMissing) {
		s.logger.WarnContext(ctx, "History file not found, starting a new one",
			logger.StringField("file", s.cfg.Gist.FileName))
		return ParseHistory("")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	history, err := ParseHistory(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return history, nil
}

// buildItems looks up the version of every run concurrently. A failed lookup records
// the run with a missing version instead of failing the sync.
func (s *syncService) buildItems(ctx context.Context, runs []dto.WorkflowRun) ([]entity.HistoryItem, error) {
	items := make([]entity.HistoryItem, len(runs))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.Sync.MaxConcurrentDownloads
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, run := range runs {
		g.Go(func() error {
			version := s.lookupVersion(gctx, run)
			items[i] = entity.HistoryItem{
				StartedAt:  run.RunStartedAt.UTC().Format(time.RFC3339),
				RunNumber:  run.RunNumber,
				Event:      run.Event,
				Conclusion: run.Conclusion,
				Duration:   FormatRunDuration(run),
				Version:    FormatVersion(version),
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(items, func(a, b entity.HistoryItem) int {
		return b.RunNumber - a.RunNumber
	})
	return items, nil
}

func (s *syncService) lookupVersion(ctx context.Context, run dto.WorkflowRun) string {
	archive, err := s.githubRepo.DownloadRunLogs(ctx, run.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to download run logs",
			logger.IntField("run_number", run.RunNumber), logger.ErrorField(err))
		return ""
	}
	version, err := s.versions.Extract(archive)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to extract version from run logs",
			logger.IntField("run_number", run.RunNumber), logger.ErrorField(err))
		return ""
	}
	if version == "" {
		s.logger.DebugContext(ctx, "No version found in run logs", logger.IntField("run_number", run.RunNumber))
	}
	return version
}

func (s *syncService) notifyFailures(ctx context.Context, items []entity.HistoryItem) {
	var failed []entity.HistoryItem
	for _, item := range items {
		if item.Conclusion != common.StatusSuccess {
			failed = append(failed, item)
		}
	}
	if len(failed) == 0 || s.notifier == nil {
		return
	}

	workflow := s.cfg.GitHub.Owner + "/" + s.cfg.GitHub.Repo
	for _, message := range telegram.FormatFailedRunsForTelegram(workflow, failed) {
		if err := s.notifier.SendMessage(message); err != nil {
			s.logger.ErrorContext(ctx, "Failed to send telegram alert", logger.ErrorField(err))
			return
		}
	}
}

// FormatRunDuration renders the wall time of a run in whole seconds.
func FormatRunDuration(run dto.WorkflowRun) string {
	seconds := int(run.UpdatedAt.Sub(run.RunStartedAt).Seconds())
	return fmt.Sprintf("%ds", seconds)
}
