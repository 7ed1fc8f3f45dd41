// internal/smartmatch/store/profiles.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ErrVendorMissing is returned when a profile is written for an unknown vendor.
var ErrVendorMissing = errors.New("vendor does not exist")

const (
	selectProfiles = `
	SELECT id, smart_match->'profile'
	FROM vendors
	WHERE id = ANY($1) AND smart_match->'profile' IS NOT NULL`

	updateProfile = `
	UPDATE vendors
	SET smart_match = jsonb_set(COALESCE(smart_match, '{}'::jsonb), '{profile}', $2::jsonb, true)
	WHERE id = $1`
)

// GetProfiles returns the raw profile documents that exist for ids.
func (s *Postgres) GetProfiles(ctx context.Context, ids []string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, selectProfiles, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte, len(ids))
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		if len(doc) > 0 {
			out[id] = doc
		}
	}
	return out, rows.Err()
}

// PutProfile overwrites the vendor's smart_match.profile sub-document. The ttl
// is ignored; staleness is judged from the document itself.
func (s *Postgres) PutProfile(ctx context.Context, id string, doc []byte, _ time.Duration) error {
	res, err := s.db.ExecContext(ctx, updateProfile, id, string(doc))
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrVendorMissing, id)
	}
	return nil
}
