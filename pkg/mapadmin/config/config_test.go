package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, uint(1), cfg.Defaults.MapConfigID)
	assert.Equal(t, 8, cfg.Defaults.PasswordLength)
	assert.Equal(t, "", cfg.Mail.Host)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapadmin.yaml")
	data := []byte(`
server:
  port: 9090
database:
  driver: postgres
  dsn: host=db user=gis dbname=gis
mail:
  host: smtp.example.com
  port: 587
  from: noreply@example.com
defaults:
  map_config_id: 4
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("MAPADMIN_DEFAULTS_WFS_PROXY_CONFIG_ID", "12")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, uint(4), cfg.Defaults.MapConfigID)
	assert.Equal(t, uint(12), cfg.Defaults.WfsProxyConfigID)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("MAPADMIN_DATABASE_DRIVER", "oracle")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Driver")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
