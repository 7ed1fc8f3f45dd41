// internal/smartmatch/configstore/store.go
package configstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/models"
)

// CacheTTL is how long a loaded config is served from process memory.
const CacheTTL = 5 * time.Minute

// Source reads and updates the raw stored config document.
// Load returns (nil, nil) when nothing has been stored yet. Merge applies a
// partial document atomically, merging nested objects one level deep, and
// returns the stored result.
type Source interface {
	Load(ctx context.Context) (map[string]interface{}, error)
	Merge(ctx context.Context, partial map[string]interface{}) (map[string]interface{}, error)
}

type cacheEntry struct {
	cfg      models.SmartMatchConfig
	loadedAt time.Time
}

// Store serves the smart match config with a short process-level cache.
// Concurrent reloads are harmless: the last one to finish wins.
type Store struct {
	source Source
	logger logger.Logger
	now    func() time.Time
	cached atomic.Pointer[cacheEntry]
}

func New(source Source, log logger.Logger) *Store {
	return &Store{
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "smartmatch-config"}),
		now:    time.Now,
	}
}

// WithClock overrides the clock used for cache expiry.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Get never fails. Read errors and missing documents fall back to Defaults.
func (s *Store) Get(ctx context.Context) models.SmartMatchConfig {
	now := s.now()
	if e := s.cached.Load(); e != nil && now.Sub(e.loadedAt) < CacheTTL {
		return e.cfg
	}

	cfg := Defaults()
	raw, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load smart match config, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
	} else if raw != nil {
		cfg = Normalize(raw)
	}

	s.cached.Store(&cacheEntry{cfg: cfg, loadedAt: now})
	return cfg
}

// Save merges partial into the stored document and drops the process cache.
func (s *Store) Save(ctx context.Context, partial map[string]interface{}) (models.SmartMatchConfig, error) {
	merged, err := s.source.Merge(ctx, partial)
	if err != nil {
		return models.SmartMatchConfig{}, fmt.Errorf("save config: %w", err)
	}

	s.Invalidate()
	s.logger.Info("smart match config updated", map[string]interface{}{
		"keys": len(partial),
	})
	return Normalize(merged), nil
}

func (s *Store) Invalidate() {
	s.cached.Store(nil)
}
