// internal/smartmatch/configstore/normalize.go
package configstore

import (
	"math"

	"github.com/spf13/cast"

	"smartmatch-workers/internal/models"
)

const (
	maxWeight = 50

	minProfileTTLMs = int64(60_000)
	maxProfileTTLMs = int64(24 * 60 * 60 * 1000)
	minScoreTTLMs   = int64(60_000)
	maxScoreTTLMs   = int64(60 * 60 * 1000)
)

// DefaultWeights sum to 100.
func DefaultWeights() models.MatchWeights {
	return models.MatchWeights{
		Location:      20,
		Delivery:      15,
		Reliability:   20,
		PaymentFit:    10,
		VendorQuality: 20,
		BuyerHistory:  15,
	}
}

func Defaults() models.SmartMatchConfig {
	return models.SmartMatchConfig{
		Enabled:           true,
		Weights:           DefaultWeights(),
		HideThreshold:     0,
		PremiumBonus:      5,
		PremiumMinScore:   60,
		ProfileCacheTTLMs: 6 * 60 * 60 * 1000,
		ScoreCacheTTLMs:   10 * 60 * 1000,
	}
}

// Normalize turns a raw stored document into a config with every field
// clamped into range. Fields that are missing or not coercible keep their default.
func Normalize(raw map[string]interface{}) models.SmartMatchConfig {
	d := Defaults()
	cfg := d

	if v, ok := raw["enabled"]; ok && v != nil {
		if b, err := cast.ToBoolE(v); err == nil {
			cfg.Enabled = b
		}
	}

	w, _ := cast.ToStringMapE(raw["weights"])
	cfg.Weights = models.MatchWeights{
		Location:      intField(w, "location", d.Weights.Location, 0, maxWeight),
		Delivery:      intField(w, "delivery", d.Weights.Delivery, 0, maxWeight),
		Reliability:   intField(w, "reliability", d.Weights.Reliability, 0, maxWeight),
		PaymentFit:    intField(w, "paymentFit", d.Weights.PaymentFit, 0, maxWeight),
		VendorQuality: intField(w, "vendorQuality", d.Weights.VendorQuality, 0, maxWeight),
		BuyerHistory:  intField(w, "buyerHistory", d.Weights.BuyerHistory, 0, maxWeight),
	}

	cfg.HideThreshold = intField(raw, "hideThreshold", d.HideThreshold, 0, 100)
	cfg.PremiumBonus = intField(raw, "premiumBonus", d.PremiumBonus, 0, 20)
	cfg.PremiumMinScore = intField(raw, "premiumMinScore", d.PremiumMinScore, 0, 100)
	cfg.ProfileCacheTTLMs = int64Field(raw, "profileCacheTtlMs", d.ProfileCacheTTLMs, minProfileTTLMs, maxProfileTTLMs)
	cfg.ScoreCacheTTLMs = int64Field(raw, "scoreCacheTtlMs", d.ScoreCacheTTLMs, minScoreTTLMs, maxScoreTTLMs)

	return cfg
}

func numberField(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func intField(m map[string]interface{}, key string, def, lo, hi int) int {
	f, ok := numberField(m, key)
	if !ok {
		return def
	}
	return int(math.Round(math.Min(math.Max(f, float64(lo)), float64(hi))))
}

func int64Field(m map[string]interface{}, key string, def, lo, hi int64) int64 {
	f, ok := numberField(m, key)
	if !ok {
		return def
	}
	return int64(math.Round(math.Min(math.Max(f, float64(lo)), float64(hi))))
}
