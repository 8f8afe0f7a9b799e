package config

import (
	"errors"
	"time"

	"workflow-runchart/pkg/config"
)

// GitHub holds the workflow whose runs are collected.
type GitHub struct {
	BaseURL             string        `mapstructure:"base_url"`
	Owner               string        `mapstructure:"owner"`
	Repo                string        `mapstructure:"repo"`
	WorkflowID          string        `mapstructure:"workflow_id"`
	Token               string        `mapstructure:"token"`
	PerPage             int           `mapstructure:"per_page"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// Gist holds the gist file the history is stored in.
type Gist struct {
	ID         string `mapstructure:"id"`
	Owner      string `mapstructure:"owner"`
	FileName   string `mapstructure:"file_name"`
	Token      string `mapstructure:"token"`
	RawBaseURL string `mapstructure:"raw_base_url"`
}

// Sync holds collector behaviour.
type Sync struct {
	Schedule               string `mapstructure:"schedule"`
	LogFileName            string `mapstructure:"log_file_name"`
	VersionPattern         string `mapstructure:"version_pattern"`
	MaxConcurrentDownloads int    `mapstructure:"max_concurrent_downloads"`
}

// Config holds the full configuration for the history sync service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	API      config.API      `mapstructure:"api"`
	GitHub   GitHub          `mapstructure:"github"`
	Gist     Gist            `mapstructure:"gist"`
	Sync     Sync            `mapstructure:"sync"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

var defaults = map[string]interface{}{
	"app.name":                      "history-sync",
	"api.port":                      8081,
	"github.base_url":               "https://api.github.com",
	"github.owner":                  "",
	"github.repo":                   "",
	"github.workflow_id":            "",
	"github.token":                  "",
	"github.per_page":               100,
	"github.max_request_per_minute": 60,
	"github.timeout":                "30s",
	"gist.id":                       "",
	"gist.owner":                    "",
	"gist.raw_base_url":             "https://gist.githubusercontent.com",
	"gist.file_name":                "run_history.csv",
	"gist.token":                    "",
	"sync.schedule":                 "0 * * * *",
	"sync.log_file_name":            "0_run-prd-sync.txt",
	"sync.version_pattern":          `airtable_sync_wheel_file_name: airtable_sync-(\d+\.\d+\.\d+)`,
	"sync.max_concurrent_downloads": 4,
	"telegram.enabled":              false,
	"telegram.bot_token":            "",
	"telegram.chat_id":              0,
}

// Validate checks the settings a sync cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" || c.GitHub.WorkflowID == "" {
		errs = append(errs, errors.New("github.owner, github.repo and github.workflow_id are required"))
	}
	if c.GitHub.Token == "" || c.Gist.Token == "" {
		errs = append(errs, errors.New("github.token and gist.token must be set"))
	}
	if c.Gist.ID == "" {
		errs = append(errs, errors.New("gist.id is required"))
	}
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		errs = append(errs, errors.New("telegram.bot_token is required when telegram is enabled"))
	}
	return errors.Join(errs...)
}

// Load loads the history sync configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults); err != nil {
		return nil, err
	}
	if cfg.Gist.Owner == "" {
		cfg.Gist.Owner = cfg.GitHub.Owner
	}
	return &cfg, nil
}
