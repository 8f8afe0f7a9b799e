package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"workflow-runchart/internal/history/config"
	"workflow-runchart/internal/history/dto"
	"workflow-runchart/pkg/logger"
)

// GitHubRepository reads workflow runs and their logs from the GitHub Actions API.
type GitHubRepository interface {
	ListWorkflowRuns(ctx context.Context) ([]dto.WorkflowRun, error)
	DownloadRunLogs(ctx context.Context, runID int64) ([]byte, error)
}

type githubRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	downloadClient *http.Client
	requestLimiter *rate.Limiter
}

// NewGitHubRepository creates a GitHubRepository authenticated with github.token.
func NewGitHubRepository(cfg *config.Config, log *logger.Logger) GitHubRepository {
	perMinute := cfg.GitHub.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(perMinute)

	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHub.Token}))
	httpClient.Timeout = cfg.GitHub.Timeout
	// Log archives redirect to signed storage URLs which must not receive the token.
	httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &githubRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     httpClient,
		downloadClient: &http.Client{Timeout: cfg.GitHub.Timeout},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// ListWorkflowRuns returns the most recent runs of the configured workflow.
func (r *githubRepository) ListWorkflowRuns(ctx context.Context) ([]dto.WorkflowRun, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/runs?per_page=%d",
		r.cfg.GitHub.BaseURL, r.cfg.GitHub.Owner, r.cfg.GitHub.Repo, r.cfg.GitHub.WorkflowID, r.cfg.GitHub.PerPage)

	resp, err := r.sendRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list workflow runs failed with status code %d", resp.StatusCode)
	}

	var response dto.WorkflowRunsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode workflow runs: %w", err)
	}

	r.log.DebugContext(ctx, "Fetched workflow runs",
		logger.IntField("count", len(response.WorkflowRuns)),
		logger.IntField("total_count", response.TotalCount),
	)

	return response.WorkflowRuns, nil
}

// DownloadRunLogs returns the zip archive holding the logs of a run.
func (r *githubRepository) DownloadRunLogs(ctx context.Context, runID int64) ([]byte, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/actions/runs/%s/logs",
		r.cfg.GitHub.BaseURL, r.cfg.GitHub.Owner, r.cfg.GitHub.Repo, strconv.FormatInt(runID, 10))

	resp, err := r.sendRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return readBody(resp)
	case http.StatusFound, http.StatusMovedPermanently, http.StatusTemporaryRedirect:
		location := resp.Header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("logs redirect for run %d has no location", runID)
		}
		return r.download(ctx, location)
	default:
		return nil, fmt.Errorf("download logs for run %d failed with status code %d", runID, resp.StatusCode)
	}
}

func (r *githubRepository) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download logs archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logs archive download failed with status code %d", resp.StatusCode)
	}
	return readBody(resp)
}

func (r *githubRepository) sendRequest(ctx context.Context, method string, url string) (*http.Response, error) {
	fields := []zap.Field{
		zap.String("url", url),
		zap.Int("max_request_per_minute", r.cfg.GitHub.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to GitHub API", fields...)
		return nil, err
	}
	return resp, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
