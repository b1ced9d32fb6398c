package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/krople/gpsmapp/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("GPSMAPP_ENV", "local")
	t.Setenv("GPSMAPP_INTERVAL", "10m")
	t.Setenv("GPSMAPP_PROVIDER_TYPE", "google")
	t.Setenv("GPSMAPP_PROVIDER_KEY", "testAPIKey")
	t.Setenv("GPSMAPP_INCREMENTAL", "true")
	t.Setenv("GPSMAPP_MAP_WIDTH", "1024")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
	assert.Equal(t, 10*time.Minute, cfg.Interval)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, "google", cfg.ProviderType)
	assert.Equal(t, "testAPIKey", cfg.APIKey)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.True(t, cfg.Incremental)
	assert.Equal(t, config.MapConfig{Width: 1024, Height: 600, Padding: 20, SingleZoom: 15, MaxZoom: 19}, cfg.Map)
	assert.Equal(t, config.StorePostgres, cfg.Store)
}

func TestMustLoad_Defaults(t *testing.T) {
	t.Setenv("GPSMAPP_ENV_FILE", "does-not-exist.env")

	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "none", cfg.ProviderType)
	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.False(t, cfg.Incremental)
}

func TestMustLoad_EnvFile(t *testing.T) {
	defer filet.CleanUp(t)

	file := filet.TmpFile(t, "", "GPSMAPP_STORE=sqlite\nGPSMAPP_SQLITE_PATH=/tmp/test.db\nGPSMAPP_WORKERS=2\n")
	t.Setenv("GPSMAPP_ENV_FILE", file.Name())
	t.Setenv("GPSMAPP_WORKERS", "6")
	t.Cleanup(func() {
		_ = os.Unsetenv("GPSMAPP_STORE")
		_ = os.Unsetenv("GPSMAPP_SQLITE_PATH")
	})

	cfg := config.MustLoad()

	assert.Equal(t, config.StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/test.db", cfg.SQLitePath)
	assert.Equal(t, 6, cfg.Workers, "environment wins over the env file")
}

func TestMustLoad_IntervalError(t *testing.T) {
	t.Setenv("GPSMAPP_INTERVAL", "error_value")

	assert.PanicsWithValue(t, "failed to parse interval from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("GPSMAPP_HEALTH_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_WorkersError(t *testing.T) {
	t.Setenv("GPSMAPP_WORKERS", "error_value")

	assert.PanicsWithValue(t, "failed to parse workers from configuration, must be an integer types", func() {
		config.MustLoad()
	})
}

func TestMustLoad_IncrementalError(t *testing.T) {
	t.Setenv("GPSMAPP_INCREMENTAL", "sometimes")

	assert.PanicsWithValue(t, "failed to parse incremental flag from configuration, must be a boolean", func() {
		config.MustLoad()
	})
}
