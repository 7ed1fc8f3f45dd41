// internal/smartmatch/configstore/store_test.go
package configstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartmatch-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	doc     map[string]interface{}
	loadErr error
	loads   int
}

func (f *fakeSource) Load(_ context.Context) (map[string]interface{}, error) {
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.doc, nil
}

func (f *fakeSource) Merge(_ context.Context, partial map[string]interface{}) (map[string]interface{}, error) {
	f.doc = mergeDocs(f.doc, partial)
	return f.doc, nil
}

func mergeDocs(dst, src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcOK := v.(map[string]interface{})
		dstMap, dstOK := out[k].(map[string]interface{})
		if srcOK && dstOK {
			out[k] = mergeDocs(dstMap, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestStore(t *testing.T, src Source, clock *fakeClock) *Store {
	return New(src, logger.NewTestLogger(t)).WithClock(clock.Now)
}

func TestNormalize_Clamping(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]interface{}
		validate func(t *testing.T, raw map[string]interface{})
	}{
		{
			name: "out of range values are clamped",
			raw: map[string]interface{}{
				"weights": map[string]interface{}{
					"location": 80,
					"delivery": -4,
				},
				"hideThreshold":     150,
				"premiumBonus":      99,
				"premiumMinScore":   -1,
				"profileCacheTtlMs": 10,
				"scoreCacheTtlMs":   1e12,
			},
			validate: func(t *testing.T, raw map[string]interface{}) {
				cfg := Normalize(raw)
				assert.Equal(t, 50, cfg.Weights.Location)
				assert.Equal(t, 0, cfg.Weights.Delivery)
				assert.Equal(t, 20, cfg.Weights.Reliability)
				assert.Equal(t, 100, cfg.HideThreshold)
				assert.Equal(t, 20, cfg.PremiumBonus)
				assert.Equal(t, 0, cfg.PremiumMinScore)
				assert.Equal(t, int64(60_000), cfg.ProfileCacheTTLMs)
				assert.Equal(t, int64(3_600_000), cfg.ScoreCacheTTLMs)
			},
		},
		{
			name: "string numbers are coerced",
			raw: map[string]interface{}{
				"enabled":      "false",
				"premiumBonus": "7",
				"weights":      map[string]interface{}{"paymentFit": "12.6"},
			},
			validate: func(t *testing.T, raw map[string]interface{}) {
				cfg := Normalize(raw)
				assert.False(t, cfg.Enabled)
				assert.Equal(t, 7, cfg.PremiumBonus)
				assert.Equal(t, 13, cfg.Weights.PaymentFit)
			},
		},
		{
			name: "garbage values fall back to defaults",
			raw: map[string]interface{}{
				"enabled":       "maybe",
				"weights":       "not-an-object",
				"hideThreshold": []interface{}{1, 2},
				"premiumBonus":  nil,
			},
			validate: func(t *testing.T, raw map[string]interface{}) {
				assert.Equal(t, Defaults(), Normalize(raw))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() { tt.validate(t, tt.raw) })
		})
	}
}

func TestStore_Get_MissingDocumentReturnsDefaults(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := newTestStore(t, &fakeSource{}, clock)

	assert.Equal(t, Defaults(), s.Get(context.Background()))
}

func TestStore_Get_LoadErrorReturnsDefaults(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	src := &fakeSource{loadErr: errors.New("connection refused")}
	s := newTestStore(t, src, clock)

	assert.Equal(t, Defaults(), s.Get(context.Background()))
}

func TestStore_Get_CachesForFiveMinutes(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	src := &fakeSource{doc: map[string]interface{}{"premiumBonus": 9}}
	s := newTestStore(t, src, clock)
	ctx := context.Background()

	assert.Equal(t, 9, s.Get(ctx).PremiumBonus)
	src.doc = map[string]interface{}{"premiumBonus": 3}

	clock.t = clock.t.Add(4 * time.Minute)
	assert.Equal(t, 9, s.Get(ctx).PremiumBonus)
	assert.Equal(t, 1, src.loads)

	clock.t = clock.t.Add(2 * time.Minute)
	assert.Equal(t, 3, s.Get(ctx).PremiumBonus)
	assert.Equal(t, 2, src.loads)
}

func TestStore_Save_MergesAndInvalidates(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	src := &fakeSource{doc: map[string]interface{}{
		"hideThreshold": 10,
		"weights":       map[string]interface{}{"location": 25, "delivery": 10},
	}}
	s := newTestStore(t, src, clock)
	ctx := context.Background()

	assert.Equal(t, 10, s.Get(ctx).HideThreshold)

	saved, err := s.Save(ctx, map[string]interface{}{
		"weights": map[string]interface{}{"delivery": 30},
	})
	require.NoError(t, err)

	assert.Equal(t, 25, saved.Weights.Location)
	assert.Equal(t, 30, saved.Weights.Delivery)
	assert.Equal(t, 10, saved.HideThreshold)

	got := s.Get(ctx)
	assert.Equal(t, 30, got.Weights.Delivery)
	assert.Equal(t, 2, src.loads)
}

func TestNormalize_NullEnabledKeepsDefault(t *testing.T) {
	cfg := Normalize(map[string]interface{}{"enabled": nil, "hideThreshold": 40})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 40, cfg.HideThreshold)

	cfg = Normalize(map[string]interface{}{"enabled": false})
	assert.False(t, cfg.Enabled)
}
