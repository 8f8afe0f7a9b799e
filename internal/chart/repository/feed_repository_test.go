package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-runchart/internal/chart/config"
	"workflow-runchart/pkg/logger"
)

func TestWithCacheBuster(t *testing.T) {
	assert.Equal(t, "http://x/run_history.csv?abc", WithCacheBuster("http://x/run_history.csv", "abc"))
	assert.Equal(t, "http://x/feed?v=1&abc", WithCacheBuster("http://x/feed?v=1", "abc"))
	assert.Equal(t, "http://x/feed", WithCacheBuster("http://x/feed", ""))
}

func TestCacheBusterVaries(t *testing.T) {
	assert.NotEmpty(t, CacheBuster())
	assert.NotEqual(t, CacheBuster(), CacheBuster())
}

func TestFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("2024-10-18T21:43:46Z,46,workflow_dispatch,success,31s,v0.2.0\n"))
	}))
	defer srv.Close()

	cfg := &config.Config{Feed: config.Feed{URL: srv.URL + "/run_history.csv", CacheBust: true}}
	repo := NewFeedRepository(cfg, logger.NewNop()).(*feedRepository)
	repo.bust = func() string { return "k3y" }

	body, err := repo.Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, body, ",46,")
	assert.Equal(t, "k3y", gotQuery)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := &config.Config{Feed: config.Feed{URL: srv.URL}}
	_, err := NewFeedRepository(cfg, logger.NewNop()).Fetch(context.Background())
	assert.ErrorContains(t, err, "404")
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := &config.Config{Feed: config.Feed{URL: url}}
	_, err := NewFeedRepository(cfg, logger.NewNop()).Fetch(context.Background())
	assert.Error(t, err)
}
