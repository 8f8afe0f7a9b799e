package repository

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"workflow-runchart/internal/chart/config"
	"workflow-runchart/pkg/logger"
)

// FeedRepository reads the raw run history feed.
type FeedRepository interface {
	Fetch(ctx context.Context) (string, error)
}

type feedRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
	bust       func() string
}

// NewFeedRepository creates a FeedRepository. A zero feed timeout leaves requests
// unbounded.
func NewFeedRepository(cfg *config.Config, log *logger.Logger) FeedRepository {
	return &feedRepository{
		cfg:        cfg,
		log:        log,
		httpClient: &http.Client{Timeout: cfg.Feed.Timeout},
		bust:       CacheBuster,
	}
}

// Fetch performs a single GET of the feed. There are no retries.
func (r *feedRepository) Fetch(ctx context.Context) (string, error) {
	url := r.cfg.Feed.URL
	if r.cfg.Feed.CacheBust {
		url = WithCacheBuster(url, r.bust())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create feed request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	r.log.DebugContext(ctx, "Fetching run history feed", logger.StringField("url", url))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read feed body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("feed request failed with status code %d", resp.StatusCode)
	}

	return string(body), nil
}

// CacheBuster returns a random base-36 token.
func CacheBuster() string {
	return strconv.FormatUint(rand.Uint64(), 36)
}

// WithCacheBuster appends token as a bare query key so intermediate caches see a
// new URL on every load.
func WithCacheBuster(url, token string) string {
	if token == "" {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + token
	}
	return url + "?" + token
}
