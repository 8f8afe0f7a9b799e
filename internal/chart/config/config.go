package config

import (
	"time"

	"workflow-runchart/pkg/common"
	"workflow-runchart/pkg/config"
)

// Feed holds the location of the run history CSV.
type Feed struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheBust bool          `mapstructure:"cache_bust"`
}

// Chart holds presentation settings.
type Chart struct {
	PageSize int    `mapstructure:"page_size"`
	TimeZone string `mapstructure:"time_zone"`
}

// Store holds settings for the load session store.
type Store struct {
	Driver string        `mapstructure:"driver"` // memory or redis
	TTL    time.Duration `mapstructure:"ttl"`
}

// Config holds the full configuration for the chart service.
type Config struct {
	App    config.App    `mapstructure:"app"`
	Logger config.Logger `mapstructure:"logger"`
	Redis  config.Redis  `mapstructure:"redis"`
	API    config.API    `mapstructure:"api"`
	Feed   Feed          `mapstructure:"feed"`
	Chart  Chart         `mapstructure:"chart"`
	Store  Store         `mapstructure:"store"`
}

var defaults = map[string]interface{}{
	"app.name":        "chart-service",
	"feed.url":        "https://gist.githubusercontent.com/zhongkairen/584db1c30251ffee502796950b03f782/raw/run_history.csv",
	"feed.timeout":    "0s",
	"feed.cache_bust": true,
	"chart.page_size": common.DefaultPageSize,
	"chart.time_zone": "Europe/Helsinki",
	"store.driver":    "memory",
	"store.ttl":       "30m",
}

// Load loads the chart service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}
