package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default upstream endpoints.
const (
	DefaultBaseURL      = "https://pokeapi.co/api/v2"
	DefaultImageBaseURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/"
	DefaultLimit        = 50
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Source     SourceConfig     `yaml:"source"`
	Views      ViewsConfig      `yaml:"views"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Log        LogConfig        `yaml:"log"`
}

// WorkerPoolConfig holds the configuration for the alert worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push alerts. Push is disabled when
// either key is empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Mode            string        `yaml:"mode"`
	RequestIPHeader string        `yaml:"request_ip_header"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"` // Ignored by YAML parser
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// SourceConfig describes the upstream list API.
type SourceConfig struct {
	BaseURL        string        `yaml:"base_url"`
	ImageBaseURL   string        `yaml:"image_base_url"`
	Limit          int           `yaml:"limit"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	HTTPProxy      string        `yaml:"http_proxy"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	UserAgent      string        `yaml:"user_agent"`
}

// ViewsConfig controls the lifetime of idle views.
type ViewsConfig struct {
	TTLSeconds int           `yaml:"ttl_seconds"`
	TTL        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default value.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = DefaultBaseURL
	}
	if cfg.Source.ImageBaseURL == "" {
		cfg.Source.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Source.Limit <= 0 {
		cfg.Source.Limit = DefaultLimit
	}
	if cfg.Source.TimeoutSeconds <= 0 {
		cfg.Source.TimeoutSeconds = 30
	}
	cfg.Source.Timeout = time.Duration(cfg.Source.TimeoutSeconds) * time.Second
	if cfg.Source.MaxBodyBytes <= 0 {
		cfg.Source.MaxBodyBytes = 4 << 20
	}

	if cfg.Views.TTLSeconds <= 0 {
		cfg.Views.TTLSeconds = 900
	}
	cfg.Views.TTL = time.Duration(cfg.Views.TTLSeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "file:pokedex.db"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
