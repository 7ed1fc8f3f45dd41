// internal/smartmatch/store/tiered.go
package store

import (
	"context"
	"time"

	"smartmatch-workers/internal/common/logger"
)

// DocumentStore is the raw profile document storage used by the profile cache.
type DocumentStore interface {
	GetProfiles(ctx context.Context, ids []string) (map[string][]byte, error)
	PutProfile(ctx context.Context, id string, doc []byte, ttl time.Duration) error
}

// Tiered reads the Redis mirror first and falls back to the primary store for
// misses. The primary store is the source of truth; mirror failures are only logged.
type Tiered struct {
	primary     DocumentStore
	mirror      DocumentStore
	backfillTTL time.Duration
	logger      logger.Logger
}

func NewTiered(primary, mirror DocumentStore, backfillTTL time.Duration, log logger.Logger) *Tiered {
	return &Tiered{
		primary:     primary,
		mirror:      mirror,
		backfillTTL: backfillTTL,
		logger:      log.WithFields(map[string]interface{}{"component": "smartmatch-profile-store"}),
	}
}

func (t *Tiered) GetProfiles(ctx context.Context, ids []string) (map[string][]byte, error) {
	found, err := t.mirror.GetProfiles(ctx, ids)
	if err != nil {
		t.logger.Warn("profile mirror read failed", map[string]interface{}{
			"error": err.Error(),
			"ids":   len(ids),
		})
		found = map[string][]byte{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	fromPrimary, err := t.primary.GetProfiles(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, doc := range fromPrimary {
		found[id] = doc
		if err := t.mirror.PutProfile(ctx, id, doc, t.backfillTTL); err != nil {
			t.logger.Debug("profile mirror backfill failed", map[string]interface{}{
				"businessId": id,
				"error":      err.Error(),
			})
		}
	}
	return found, nil
}

func (t *Tiered) PutProfile(ctx context.Context, id string, doc []byte, ttl time.Duration) error {
	if err := t.primary.PutProfile(ctx, id, doc, ttl); err != nil {
		return err
	}
	if err := t.mirror.PutProfile(ctx, id, doc, ttl); err != nil {
		t.logger.Warn("profile mirror write failed", map[string]interface{}{
			"businessId": id,
			"error":      err.Error(),
		})
	}
	return nil
}
