// internal/workers/smartmatch/vendor-insights/handler_test.go
package vendorinsights

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"smartmatch-workers/internal/common/errors"
	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/models"
	"smartmatch-workers/internal/smartmatch/insights"
	"smartmatch-workers/internal/smartmatch/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeCache struct {
	profiles map[string]*models.VendorReliabilityProfile
	readErr  error
	puts     int
}

func (f *fakeCache) GetOne(_ context.Context, id string) (*models.VendorReliabilityProfile, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.profiles[id], nil
}

func (f *fakeCache) Put(_ context.Context, id string, p *models.VendorReliabilityProfile) error {
	f.puts++
	f.profiles[id] = p
	return nil
}

type fakeBuilder struct {
	err   error
	calls int
}

func (f *fakeBuilder) Build(_ context.Context, id string) (*models.VendorReliabilityProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.VendorReliabilityProfile{BusinessID: id, TotalOrders: 10, FulfillmentRate: 92}, nil
}

func cachedProfile() *models.VendorReliabilityProfile {
	return &models.VendorReliabilityProfile{
		BusinessID:        "biz-1",
		TotalOrders:       30,
		FulfillmentRate:   98,
		AvgDeliveryHours:  20,
		DisputeRate:       0.5,
		VerificationTier:  3,
		SupportsCard:      true,
		StockAccuracyRate: 95,
	}
}

func createTestHandler(t *testing.T, cache *fakeCache, builder *fakeBuilder, cfg *Config) *Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return NewHandler(cfg, cache, builder, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_UsesCachedProfile(t *testing.T) {
	cache := &fakeCache{profiles: map[string]*models.VendorReliabilityProfile{"biz-1": cachedProfile()}}
	builder := &fakeBuilder{}
	h := createTestHandler(t, cache, builder, nil)

	out, err := h.Execute(context.Background(), &Input{BusinessID: "biz-1"})
	require.NoError(t, err)

	assert.True(t, out.Available)
	assert.False(t, out.Recomputed)
	assert.Zero(t, builder.calls)
	assert.Equal(t, insights.Generate(cachedProfile()), out.Insights)
}

func TestHandler_Execute_BuildsOnMiss(t *testing.T) {
	cache := &fakeCache{profiles: map[string]*models.VendorReliabilityProfile{}}
	builder := &fakeBuilder{}
	h := createTestHandler(t, cache, builder, nil)

	out, err := h.Execute(context.Background(), &Input{BusinessID: " biz-2 "})
	require.NoError(t, err)

	assert.Equal(t, "biz-2", out.BusinessID)
	assert.True(t, out.Available)
	assert.True(t, out.Recomputed)
	assert.Equal(t, 1, cache.puts)
	assert.NotEmpty(t, out.Insights)
}

func TestHandler_Execute_RefreshBypassesCache(t *testing.T) {
	cache := &fakeCache{profiles: map[string]*models.VendorReliabilityProfile{"biz-1": cachedProfile()}}
	builder := &fakeBuilder{}
	h := createTestHandler(t, cache, builder, nil)

	out, err := h.Execute(context.Background(), &Input{BusinessID: "biz-1", Refresh: true})
	require.NoError(t, err)

	assert.True(t, out.Recomputed)
	assert.Equal(t, 92, out.Profile.FulfillmentRate)
}

func TestHandler_Execute_MissWithoutBuild(t *testing.T) {
	cache := &fakeCache{profiles: map[string]*models.VendorReliabilityProfile{}}
	h := createTestHandler(t, cache, &fakeBuilder{}, &Config{BuildOnMiss: false})

	out, err := h.Execute(context.Background(), &Input{BusinessID: "biz-1"})
	require.NoError(t, err)

	assert.False(t, out.Available)
	assert.Empty(t, out.Insights)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		buildErr  error
		code      errors.ErrorCode
		retryable bool
	}{
		{"missing id", &Input{}, nil, errors.ErrCodeValidationFailed, false},
		{"vendor not found", &Input{BusinessID: "ghost"}, fmt.Errorf("build: %w", profile.ErrVendorNotFound), errors.ErrCodeVendorNotFound, false},
		{"source failure", &Input{BusinessID: "biz-1"}, stderrors.New("db down"), errors.ErrCodeProfileBuildFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &fakeCache{profiles: map[string]*models.VendorReliabilityProfile{}}
			h := createTestHandler(t, cache, &fakeBuilder{err: tt.buildErr}, nil)

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)

			var stdErr *errors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_CacheReadErrorFallsBackToBuild(t *testing.T) {
	cache := &fakeCache{profiles: map[string]*models.VendorReliabilityProfile{}, readErr: stderrors.New("timeout")}
	builder := &fakeBuilder{}
	h := createTestHandler(t, cache, builder, nil)

	out, err := h.Execute(context.Background(), &Input{BusinessID: "biz-1"})
	require.NoError(t, err)
	assert.True(t, out.Recomputed)
	assert.Equal(t, 1, builder.calls)
}
