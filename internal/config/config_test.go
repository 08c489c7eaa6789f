package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerHour)
	assert.Equal(t, "bins/+/fill", cfg.MQTT.Topic)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  env: dev
simulator:
  interval: 15s
mqtt:
  broker: tcp://localhost:1883
data:
  seed_file: seed.yaml
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 15*time.Second, cfg.Simulator.Interval)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "seed.yaml", cfg.Data.SeedFile)
	// untouched keys keep their defaults
	assert.Equal(t, "wastewise-backend", cfg.MQTT.ClientID)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("WASTEWISE_SERVER__PORT", "7070")
	t.Setenv("WASTEWISE_AUTH__JWT_SECRET", "from-prefixed-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-prefixed-env", cfg.Auth.JWTSecret)
}

func TestLegacyEnvWins(t *testing.T) {
	t.Setenv("WASTEWISE_SERVER__PORT", "7070")
	t.Setenv("PORT", "6060")
	t.Setenv("DATABASE_URL", "postgres://localhost/wastewise")
	t.Setenv("APP_JWT_SECRET", "legacy-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/wastewise", cfg.Database.URL)
	assert.Equal(t, "legacy-secret", cfg.Auth.JWTSecret)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  port: 70000\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "simulator:\n  interval: -1s\n"))
	assert.Error(t, err)

	t.Setenv("PORT", "not-a-port")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
