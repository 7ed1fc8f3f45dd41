// internal/workers/smartmatch/recompute-profiles/config.go
package recomputeprofiles

import (
	"time"

	"smartmatch-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxExplicitIDs bounds the businessIds list of a targeted run.
	MaxExplicitIDs int
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:        30 * time.Minute,
		MaxExplicitIDs: 1000,
	}
}

func FromWorkerConfig(wc config.WorkerConfig) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
