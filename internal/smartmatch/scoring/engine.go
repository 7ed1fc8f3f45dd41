// internal/smartmatch/scoring/engine.go
package scoring

import (
	"math"

	"smartmatch-workers/internal/models"
)

// FlaggedCeiling is the highest total a flagged vendor can reach.
const FlaggedCeiling = 30

type Input struct {
	Buyer             *models.BuyerIntentProfile
	Vendor            *models.VendorReliabilityProfile
	Weights           models.MatchWeights
	ProductCategories []string
	Premium           bool
	PremiumBonus      int
	PremiumMinScore   int
}

type Result struct {
	Breakdown models.MatchScoreBreakdown `json:"breakdown"`
	Label     models.MatchLabel          `json:"label"`
	Reason    string                     `json:"reason"`
}

// Score combines one buyer and one vendor profile into a 0-100 match score.
// It has no side effects.
func Score(in Input) Result {
	buyer := in.Buyer
	if buyer == nil {
		buyer = &models.BuyerIntentProfile{}
	}
	vendor := in.Vendor
	if vendor == nil {
		vendor = models.NeutralProfile("")
	}
	w := in.Weights

	b := models.MatchScoreBreakdown{
		Location:      portion(w.Location, locationFit(buyer, vendor)),
		Delivery:      portion(w.Delivery, deliveryFit(vendor)),
		Reliability:   portion(w.Reliability, reliabilityFit(vendor)),
		PaymentFit:    portion(w.PaymentFit, paymentFit(buyer, vendor)),
		VendorQuality: portion(w.VendorQuality, vendorQualityFit(vendor)),
		BuyerHistory:  portion(w.BuyerHistory, buyerHistoryFit(buyer, vendor, in.ProductCategories)),
	}

	raw := b.Location + b.Delivery + b.Reliability + b.PaymentFit + b.VendorQuality + b.BuyerHistory

	// order matters: flag cap, then premium bonus, then clamp
	if vendor.Flagged && raw > FlaggedCeiling {
		raw = FlaggedCeiling
	}
	if in.Premium && !vendor.Flagged && in.PremiumBonus > 0 && raw >= in.PremiumMinScore {
		raw += in.PremiumBonus
	}
	b.Total = clamp(raw, 0, 100)

	return Result{
		Breakdown: b,
		Label:     ScoreToLabel(b.Total),
		Reason:    buildReason(buyer, vendor, w, b),
	}
}

func portion(weight int, fraction float64) int {
	if weight <= 0 || fraction <= 0 {
		return 0
	}
	return int(math.Round(float64(weight) * fraction))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
