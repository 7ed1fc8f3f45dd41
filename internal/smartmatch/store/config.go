// internal/smartmatch/store/config.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ConfigID is the key of the single smart match config row.
const ConfigID = "default"

const (
	selectConfig = `SELECT data FROM smart_match_config WHERE id = $1`
	// mergeConfig merges in one statement so concurrent saves each keep
	// their keys. Nested weights are merged key by key.
	mergeConfig = `
	INSERT INTO smart_match_config (id, data, updated_at)
	VALUES ($1, $2::jsonb, NOW())
	ON CONFLICT (id) DO UPDATE SET
		data = smart_match_config.data || $2::jsonb || CASE
			WHEN jsonb_typeof($2::jsonb -> 'weights') = 'object'
			 AND jsonb_typeof(smart_match_config.data -> 'weights') = 'object'
			THEN jsonb_build_object('weights', (smart_match_config.data -> 'weights') || ($2::jsonb -> 'weights'))
			ELSE '{}'::jsonb
		END,
		updated_at = NOW()
	RETURNING data`
)

// ConfigSource persists the raw smart match config document.
type ConfigSource struct {
	db *sql.DB
}

func NewConfigSource(db *sql.DB) *ConfigSource {
	return &ConfigSource{db: db}
}

func (c *ConfigSource) Load(ctx context.Context) (map[string]interface{}, error) {
	var raw []byte
	err := c.db.QueryRowContext(ctx, selectConfig, ConfigID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query config: %w", err)
	}
	return decodeConfig(raw)
}

// Merge applies partial to the stored document with JSONB || and returns
// the resulting document.
func (c *ConfigSource) Merge(ctx context.Context, partial map[string]interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(partial)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	var raw []byte
	if err := c.db.QueryRowContext(ctx, mergeConfig, ConfigID, string(data)).Scan(&raw); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}
	return decodeConfig(raw)
}

func decodeConfig(raw []byte) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return doc, nil
}
