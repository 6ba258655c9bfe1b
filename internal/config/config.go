package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Poller    PollerConfig    `mapstructure:"poller"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`

	// Video generation blocks a request for the full poll budget, so the
	// write timeout must exceed it.
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type BackendConfig struct {
	// URL of the provider-catalog backend. Resolved in priority order:
	// backend.url, then HOST_API, then SERVER_URL.
	URL     string `mapstructure:"url"`
	HostAPI string `mapstructure:"host_api"`
	Server  string `mapstructure:"server_url"`
}

// Resolve applies the priority chain. An empty result is a configuration
// error that degrades to an empty provider catalog, never a crash.
func (b BackendConfig) Resolve() string {
	if b.URL != "" {
		return strings.TrimRight(b.URL, "/")
	}
	if b.HostAPI != "" {
		return strings.TrimRight(b.HostAPI, "/")
	}
	if b.Server != "" {
		return strings.TrimRight(b.Server, "/")
	}
	return ""
}

type CatalogConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type PollerConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 6*time.Minute)
	v.SetDefault("catalog.ttl", 5*time.Minute)
	v.SetDefault("poller.interval", 10*time.Second)
	v.SetDefault("poller.max_attempts", 30)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("store.dsn", "file:gateway.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy environment names used by the admin frontend deployments.
	_ = v.BindEnv("backend.host_api", "HOST_API")
	_ = v.BindEnv("backend.server_url", "SERVER_URL")
	_ = v.BindEnv("backend.url", "BACKEND_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}
