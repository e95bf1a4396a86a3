package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName                 string        `mapstructure:"app_name"`
	LogLevel                string        `mapstructure:"log_level"`
	TransportTimeoutSeconds int64         `mapstructure:"transport_timeout_seconds"`
	TransportTimeout        time.Duration `mapstructure:"-"`
	MaxRedirects            int           `mapstructure:"max_redirects"`
	SharedMaxInFlight       int64         `mapstructure:"shared_max_inflight"`
}

// EnvPrefix namespaces every environment variable the bridge reads, e.g. BRIDGE_LOG_LEVEL.
const EnvPrefix = "BRIDGE"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "reqbridge")
	v.SetDefault("log_level", "info")
	v.SetDefault("transport_timeout_seconds", 0) // no timeout
	v.SetDefault("max_redirects", 10)
	v.SetDefault("shared_max_inflight", 0) // unbounded

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.TransportTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid transport_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.TransportTimeout = time.Duration(cfg.TransportTimeoutSeconds) * time.Second

	if cfg.MaxRedirects < 0 {
		return nil, fmt.Errorf("invalid max_redirects (must be zero or positive)")
	}
	if cfg.SharedMaxInFlight < 0 {
		return nil, fmt.Errorf("invalid shared_max_inflight (must be zero or positive)")
	}

	return &cfg, nil
}
