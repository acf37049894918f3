package config

import "time"

// TrawlerConfig is the root configuration for a trawler instance.
type TrawlerConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Polling  PollingConfig  `yaml:"polling"`
	Upload   UploadConfig   `yaml:"upload"`
	Stats    StatsConfig    `yaml:"stats"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Health   HealthConfig   `yaml:"health"`
}

// InstanceConfig identifies this trawler.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds CREST API settings.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"` // Optional override; default carries version + contact
	Timeout   time.Duration `yaml:"timeout"`
}

// PollingConfig holds scheduler settings. The client pool is sized equal
// to the worker count.
type PollingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Workers           int     `yaml:"workers"`
}

// UploadConfig holds upload pipeline settings.
type UploadConfig struct {
	URL     string        `yaml:"url"`
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

// StatsConfig holds statistics snapshot settings.
type StatsConfig struct {
	File string `yaml:"file"`
}

// ArchiveConfig holds the optional Postgres order archive.
type ArchiveConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// HealthConfig holds the health/debug HTTP endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
