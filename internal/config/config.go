package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	ContentSourceFile     = "file"
	ContentSourcePostgres = "postgres"
)

type Config struct {
	// set from the selected env, not from the file
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// http
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
	PublicDir          string   `toml:"public_dir"`
	// quiz content
	ContentSource          string `toml:"content_source"`
	QuizDataPath           string `toml:"quiz_data_path"`
	ContentCacheTTLSeconds int    `toml:"content_cache_ttl_seconds"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// 0 disables login rate limiting
	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_allowed_per_min"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = strings.ToLower(env)
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if cfg.ContentSource == "" {
		cfg.ContentSource = ContentSourceFile
	}
	switch cfg.ContentSource {
	case ContentSourceFile:
		if cfg.QuizDataPath == "" {
			return nil, errors.New("quiz_data_path must be set for the file content source")
		}
	case ContentSourcePostgres:
		if cfg.PostgresHost == "" || cfg.PostgresDBName == "" {
			return nil, errors.New("postgres_host and postgres_db_name must be set for the postgres content source")
		}
	default:
		return nil, fmt.Errorf("unknown content source: %s", cfg.ContentSource)
	}

	if cfg.ContentCacheTTLSeconds < 0 {
		return nil, fmt.Errorf("content_cache_ttl_seconds cannot be negative: %d", cfg.ContentCacheTTLSeconds)
	}

	return cfg, nil
}

// IsProduction controls the Secure flag of the session cookie.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}

// Secrets are read from the process environment only, never from the config file.
type Secrets struct {
	AdminUsername    string
	AdminPassword    string
	AuthToken        string
	RedisPassword    string
	PostgresPassword string
	SentryDSN        string
}

var ErrMissingSecret = errors.New("missing secret")

func LoadSecrets() (*Secrets, error) {
	secrets := &Secrets{
		AdminUsername:    os.Getenv("ADMIN_USERNAME"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		AuthToken:        os.Getenv("AUTH_TOKEN"),
		RedisPassword:    os.Getenv("REDIS_PASS"),
		PostgresPassword: os.Getenv("POSTGRES_PASS"),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
	}

	for envVar, val := range map[string]string{
		"ADMIN_USERNAME": secrets.AdminUsername,
		"ADMIN_PASSWORD": secrets.AdminPassword,
		"AUTH_TOKEN":     secrets.AuthToken,
	} {
		if val == "" {
			return nil, fmt.Errorf("%w: %s not set", ErrMissingSecret, envVar)
		}
	}

	return secrets, nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set are not overridden, and a missing file is not an error.
func LoadDotEnv(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("load env file %s: %w", path, err)
	}
	return true, nil
}
