// internal/workers/smartmatch/vendor-insights/config.go
package vendorinsights

import (
	"time"

	"smartmatch-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// BuildOnMiss computes a fresh profile when none is cached.
	BuildOnMiss bool
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     15 * time.Second,
		BuildOnMiss: true,
	}
}

func FromWorkerConfig(wc config.WorkerConfig) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
