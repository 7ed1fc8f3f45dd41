// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  name: smartmatch-workers
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: marketplace
    user: ${SMARTMATCH_TEST_DB_USER}
  redis:
    address: localhost:6379
smartmatch:
  recompute_interval: 3600000
  redis_mirror: true
workers:
  smartmatch-rank-listings:
    enabled: true
    timeout: 5000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("SMARTMATCH_TEST_DB_USER", "matcher")

	cfg, err := LoadFromFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "matcher", cfg.Database.Postgres.User)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)

	assert.Equal(t, 180, cfg.Smartmatch.LookbackDays)
	assert.Equal(t, 500, cfg.Smartmatch.MaxOrders)
	assert.Equal(t, 200, cfg.Smartmatch.RecomputePageSize)
	assert.Equal(t, time.Hour, GetDuration(cfg.Smartmatch.RecomputeInterval))
	assert.True(t, cfg.Smartmatch.RedisMirror)

	w := GetWorkerConfig(cfg, "smartmatch-rank-listings")
	assert.Equal(t, 5000, w.Timeout)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 3, w.MaxRetries)

	assert.Equal(t, 8080, cfg.Observability.MetricsPort)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing broker",
			body: "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\n",
			want: "camunda.broker_address",
		},
		{
			name: "missing redis",
			body: "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			want: "database.redis.address",
		},
		{
			name: "negative interval",
			body: "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\nsmartmatch:\n  recompute_interval: -1\n",
			want: "recompute_interval",
		},
		{
			name: "tracing without endpoint",
			body: "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\nobservability:\n  tracing:\n    enabled: true\n",
			want: "jaeger_endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_USER", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	w := GetWorkerConfig(&Config{}, "unknown")
	assert.True(t, w.Enabled)
	assert.Equal(t, 30000, w.Timeout)
	assert.True(t, IsWorkerEnabled(&Config{}, "unknown"))
}
