// internal/workers/smartmatch/rank-listings/config.go
package ranklistings

import (
	"time"

	"smartmatch-workers/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	MaxCandidates int
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		MaxCandidates: 500,
	}
}

// FromWorkerConfig overlays the worker section of the process config.
func FromWorkerConfig(wc config.WorkerConfig) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
