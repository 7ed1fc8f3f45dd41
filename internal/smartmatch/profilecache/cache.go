// internal/smartmatch/profilecache/cache.go
package profilecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/common/metrics"
	"smartmatch-workers/internal/models"
	"smartmatch-workers/internal/smartmatch/store"
)

// ChunkSize bounds the number of ids sent to the store in one read.
const ChunkSize = 400

// ConfigProvider supplies the current profile TTL.
type ConfigProvider interface {
	Get(ctx context.Context) models.SmartMatchConfig
}

// Cache serves vendor profiles that are still within their TTL. Stale,
// missing and undecodable documents are all reported as absent.
type Cache struct {
	store  store.DocumentStore
	config ConfigProvider
	logger logger.Logger
	now    func() time.Time
}

func New(docs store.DocumentStore, config ConfigProvider, log logger.Logger) *Cache {
	return &Cache{
		store:  docs,
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "smartmatch-profile-cache"}),
		now:    time.Now,
	}
}

func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// GetOne returns nil, nil when there is no valid profile for id.
func (c *Cache) GetOne(ctx context.Context, id string) (*models.VendorReliabilityProfile, error) {
	docs, err := c.store.GetProfiles(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	ttl := c.ttl(ctx)
	return c.decode(id, docs[id], ttl), nil
}

// GetMany returns only the valid profiles among ids. Failed chunks are skipped.
func (c *Cache) GetMany(ctx context.Context, ids []string) map[string]*models.VendorReliabilityProfile {
	unique := dedupe(ids)
	out := make(map[string]*models.VendorReliabilityProfile, len(unique))
	if len(unique) == 0 {
		return out
	}
	ttl := c.ttl(ctx)

	for start := 0; start < len(unique); start += ChunkSize {
		end := start + ChunkSize
		if end > len(unique) {
			end = len(unique)
		}
		chunk := unique[start:end]

		docs, err := c.store.GetProfiles(ctx, chunk)
		if err != nil {
			c.logger.Warn("profile chunk read failed, skipping", map[string]interface{}{
				"chunkStart": start,
				"chunkSize":  len(chunk),
				"error":      err.Error(),
			})
			continue
		}
		for _, id := range chunk {
			if p := c.decode(id, docs[id], ttl); p != nil {
				out[id] = p
			}
		}
	}
	return out
}

// Put stamps the profile with the current time and overwrites the stored copy.
func (c *Cache) Put(ctx context.Context, id string, p *models.VendorReliabilityProfile) error {
	p.BusinessID = id
	p.ComputedAtMs = c.now().UnixMilli()

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := c.store.PutProfile(ctx, id, doc, c.ttl(ctx)); err != nil {
		return fmt.Errorf("put profile %s: %w", id, err)
	}
	return nil
}

func (c *Cache) ttl(ctx context.Context) time.Duration {
	return time.Duration(c.config.Get(ctx).ProfileCacheTTLMs) * time.Millisecond
}

func (c *Cache) decode(id string, doc []byte, ttl time.Duration) *models.VendorReliabilityProfile {
	if len(doc) == 0 {
		metrics.ProfileLookups.WithLabelValues("miss").Inc()
		return nil
	}

	var p models.VendorReliabilityProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		metrics.ProfileLookups.WithLabelValues("invalid").Inc()
		c.logger.Debug("undecodable profile document", map[string]interface{}{
			"businessId": id,
			"error":      err.Error(),
		})
		return nil
	}

	if c.now().UnixMilli()-p.ComputedAtMs > ttl.Milliseconds() {
		metrics.ProfileLookups.WithLabelValues("stale").Inc()
		return nil
	}

	metrics.ProfileLookups.WithLabelValues("hit").Inc()
	if p.BusinessID == "" {
		p.BusinessID = id
	}
	return &p
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
