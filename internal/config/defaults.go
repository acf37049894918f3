package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL           = "https://crest-tq.eveonline.com"
	DefaultAPITimeout        = 30 * time.Second
	DefaultRequestsPerSecond = 60
	DefaultPollingWorkers    = 5
	DefaultUploadURL         = "http://upload.eve-emdr.com/upload/"
	DefaultUploadWorkers     = 10
	DefaultUploadTimeout     = 30 * time.Second
	DefaultStatsFile         = "stats.json"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultHealthPort        = 8080
)

func (c *TrawlerConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Polling defaults
	if c.Polling.RequestsPerSecond == 0 {
		c.Polling.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Polling.Workers == 0 {
		c.Polling.Workers = DefaultPollingWorkers
	}

	// Upload defaults
	if c.Upload.URL == "" {
		c.Upload.URL = DefaultUploadURL
	}
	if c.Upload.Workers == 0 {
		c.Upload.Workers = DefaultUploadWorkers
	}
	if c.Upload.Timeout == 0 {
		c.Upload.Timeout = DefaultUploadTimeout
	}

	// Stats defaults
	if c.Stats.File == "" {
		c.Stats.File = DefaultStatsFile
	}

	// Archive defaults
	if c.Archive.Enabled {
		applyDBDefaults(&c.Archive.Postgres)
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
