package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.TTL)
	assert.Equal(t, 10*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 30, cfg.Poller.MaxAttempts)
	// write timeout has to cover the full 5-minute poll budget
	assert.Greater(t, cfg.Server.WriteTimeout, 5*time.Minute)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
}

func TestBackendConfig_Resolve(t *testing.T) {
	tests := []struct {
		name string
		cfg  BackendConfig
		want string
	}{
		{"explicit url wins", BackendConfig{URL: "https://a/", HostAPI: "https://b", Server: "https://c"}, "https://a"},
		{"host api second", BackendConfig{HostAPI: "https://b/", Server: "https://c"}, "https://b"},
		{"server url last", BackendConfig{Server: "https://c/"}, "https://c"},
		{"nothing configured", BackendConfig{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Resolve())
		})
	}
}

func TestLoadConfig_BackendEnvChain(t *testing.T) {
	os.Clearenv()
	t.Setenv("HOST_API", "https://backend.example.com/api")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "https://backend.example.com/api", cfg.Backend.Resolve())
}
