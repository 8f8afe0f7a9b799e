package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"workflow-runchart/internal/history/config"
	"workflow-runchart/internal/history/dto"
	"workflow-runchart/pkg/logger"
)

// ErrGistFileMissing is returned when the history file does not exist in the gist yet.
var ErrGistFileMissing = errors.New("gist file not found")

// GistRepository reads and replaces the history file stored in a gist.
type GistRepository interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, content string) error
}

type gistRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewGistRepository creates a GistRepository authenticated with gist.token.
func NewGistRepository(cfg *config.Config, log *logger.Logger) GistRepository {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Gist.Token}))
	httpClient.Timeout = cfg.GitHub.Timeout
	return &gistRepository{
		cfg:        cfg,
		log:        log,
		httpClient: httpClient,
	}
}

// Read returns the raw content of the history file.
func (r *gistRepository) Read(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/raw/%s", r.cfg.Gist.RawBaseURL, r.cfg.Gist.Owner, r.cfg.Gist.ID, r.cfg.Gist.FileName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create gist request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to read gist: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrGistFileMissing
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("read gist failed with status code %d", resp.StatusCode)
	}

	body, err := readBody(resp)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Write replaces the history file with content.
func (r *gistRepository) Write(ctx context.Context, content string) error {
	payload, err := json.Marshal(dto.Gist{
		Files: map[string]dto.GistFile{
			r.cfg.Gist.FileName: {Content: content},
		},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/gists/%s", r.cfg.GitHub.BaseURL, r.cfg.Gist.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create gist update request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from gist API",
			logger.StringField("gist_id", r.cfg.Gist.ID),
			logger.IntField("status_code", resp.StatusCode),
		)
		return fmt.Errorf("update gist failed with status code %d", resp.StatusCode)
	}

	r.log.InfoContext(ctx, "Gist updated",
		logger.StringField("gist_id", r.cfg.Gist.ID),
		logger.StringField("file", r.cfg.Gist.FileName),
	)
	return nil
}
