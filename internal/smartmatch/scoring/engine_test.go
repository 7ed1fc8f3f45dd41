// internal/smartmatch/scoring/engine_test.go
package scoring

import (
	"testing"

	"smartmatch-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func defaultWeights() models.MatchWeights {
	return models.MatchWeights{
		Location:      20,
		Delivery:      15,
		Reliability:   20,
		PaymentFit:    10,
		VendorQuality: 20,
		BuyerHistory:  15,
	}
}

func excellentVendor() *models.VendorReliabilityProfile {
	return &models.VendorReliabilityProfile{
		BusinessID:       "biz-1",
		FulfillmentRate:  96,
		AvgDeliveryHours: 10,
		DisputeRate:      1,
		TotalOrders:      50,
		ApexBadgeActive:  true,
		VerificationTier: 3,
		IsVerified:       true,
		TotalReviews:     20,
		AverageRating:    4.8,
		State:            "Lagos",
		City:             "Ikeja",
		SupportsCard:     true,
	}
}

func repeatBuyer() *models.BuyerIntentProfile {
	return &models.BuyerIntentProfile{
		State:                "Lagos",
		City:                 "Ikeja",
		PreferredPaymentType: models.PaymentCard,
		VendorHistory:        map[string]int{"biz-1": 3},
	}
}

// ==========================
// Scenario Tests
// ==========================

func TestScore_ExcellentVendor(t *testing.T) {
	res := Score(Input{
		Buyer:   repeatBuyer(),
		Vendor:  excellentVendor(),
		Weights: defaultWeights(),
	})

	assert.Equal(t, models.MatchScoreBreakdown{
		Location:      20,
		Delivery:      15,
		Reliability:   20,
		PaymentFit:    10,
		VendorQuality: 17,
		BuyerHistory:  15,
		Total:         97,
	}, res.Breakdown)
	assert.GreaterOrEqual(t, res.Breakdown.Total, 90)
	assert.Equal(t, models.LabelBestMatch, res.Label.Label)
	assert.Equal(t, "Best Match", res.Label.Text)
	assert.Equal(t, "Near you · Delivers fast · 96% fulfillment rate", res.Reason)
}

func TestScore_ExcellentVendorWithoutOrderCount(t *testing.T) {
	vendor := &models.VendorReliabilityProfile{
		BusinessID:       "biz-1",
		FulfillmentRate:  96,
		AvgDeliveryHours: 10,
		DisputeRate:      1,
		ApexBadgeActive:  true,
		VerificationTier: 3,
		TotalReviews:     20,
		AverageRating:    4.8,
		State:            "Lagos",
		City:             "Ikeja",
		SupportsCard:     true,
	}

	res := Score(Input{Buyer: repeatBuyer(), Vendor: vendor, Weights: defaultWeights()})

	assert.Equal(t, 20, res.Breakdown.Reliability)
	assert.Equal(t, 17, res.Breakdown.VendorQuality)
	assert.Equal(t, 97, res.Breakdown.Total)
	assert.Equal(t, models.LabelBestMatch, res.Label.Label)
}

func TestScore_FlaggedTwin(t *testing.T) {
	vendor := excellentVendor()
	vendor.Flagged = true

	res := Score(Input{
		Buyer:           repeatBuyer(),
		Vendor:          vendor,
		Weights:         defaultWeights(),
		Premium:         true,
		PremiumBonus:    20,
		PremiumMinScore: 0,
	})

	assert.LessOrEqual(t, res.Breakdown.Total, FlaggedCeiling)
	assert.Equal(t, models.LabelLowMatch, res.Label.Label)
	assert.Empty(t, res.Label.Text)
	assert.Empty(t, res.Reason)
}

func TestScore_ZeroOrdersIsNeutral(t *testing.T) {
	vendor := &models.VendorReliabilityProfile{BusinessID: "biz-new", FulfillmentRate: 0}

	res := Score(Input{Buyer: &models.BuyerIntentProfile{}, Vendor: vendor, Weights: defaultWeights()})

	assert.Equal(t, 8, res.Breakdown.Reliability)
}

func TestScore_PremiumBonus(t *testing.T) {
	tests := []struct {
		name     string
		vendor   *models.VendorReliabilityProfile
		buyer    *models.BuyerIntentProfile
		bonus    int
		minScore int
		validate func(t *testing.T, plain, premium Result)
	}{
		{
			name:     "bonus never pushes total above 100",
			vendor:   excellentVendor(),
			buyer:    repeatBuyer(),
			bonus:    20,
			minScore: 60,
			validate: func(t *testing.T, plain, premium Result) {
				assert.Equal(t, 97, plain.Breakdown.Total)
				assert.Equal(t, 100, premium.Breakdown.Total)
			},
		},
		{
			name:     "bonus applied at or above min score",
			vendor:   excellentVendor(),
			buyer:    &models.BuyerIntentProfile{},
			bonus:    5,
			minScore: 60,
			validate: func(t *testing.T, plain, premium Result) {
				require.GreaterOrEqual(t, plain.Breakdown.Total, 60)
				assert.Equal(t, plain.Breakdown.Total+5, premium.Breakdown.Total)
			},
		},
		{
			name:     "bonus denied below min score",
			vendor:   models.NeutralProfile("biz-weak"),
			buyer:    &models.BuyerIntentProfile{},
			bonus:    5,
			minScore: 60,
			validate: func(t *testing.T, plain, premium Result) {
				require.Less(t, plain.Breakdown.Total, 60)
				assert.Equal(t, plain.Breakdown.Total, premium.Breakdown.Total)
			},
		},
		{
			name:     "zero bonus is a no-op",
			vendor:   excellentVendor(),
			buyer:    &models.BuyerIntentProfile{},
			bonus:    0,
			minScore: 0,
			validate: func(t *testing.T, plain, premium Result) {
				assert.Equal(t, plain.Breakdown.Total, premium.Breakdown.Total)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				Buyer:           tt.buyer,
				Vendor:          tt.vendor,
				Weights:         defaultWeights(),
				PremiumBonus:    tt.bonus,
				PremiumMinScore: tt.minScore,
			}
			plain := Score(in)
			in.Premium = true
			premium := Score(in)
			tt.validate(t, plain, premium)
		})
	}
}

// ==========================
// Factor Tier Tests
// ==========================

func TestLocationFit(t *testing.T) {
	tests := []struct {
		name     string
		buyer    models.BuyerIntentProfile
		vendor   models.VendorReliabilityProfile
		expected float64
	}{
		{"buyer without location", models.BuyerIntentProfile{}, models.VendorReliabilityProfile{State: "Lagos"}, 0.5},
		{"city exact ignores case and spaces", models.BuyerIntentProfile{City: " ikeja "}, models.VendorReliabilityProfile{City: "Ikeja"}, 1.0},
		{"city substring", models.BuyerIntentProfile{City: "Ikeja GRA"}, models.VendorReliabilityProfile{City: "Ikeja"}, 0.85},
		{"state exact", models.BuyerIntentProfile{State: "Lagos", City: "Lekki"}, models.VendorReliabilityProfile{State: "lagos", City: "Ikeja"}, 0.72},
		{"state substring", models.BuyerIntentProfile{State: "Lagos State"}, models.VendorReliabilityProfile{State: "Lagos"}, 0.6},
		{"vendor has other state", models.BuyerIntentProfile{State: "Oyo"}, models.VendorReliabilityProfile{State: "Lagos"}, 0.4},
		{"vendor has no location", models.BuyerIntentProfile{State: "Oyo"}, models.VendorReliabilityProfile{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, locationFit(&tt.buyer, &tt.vendor))
		})
	}
}

func TestDeliveryAndReliabilityFit(t *testing.T) {
	delivery := map[float64]float64{0: 0.3, -2: 0.3, 24: 1.0, 48: 0.67, 72: 0.67, 100: 0.33, 168: 0.33, 169: 0}
	for hours, expected := range delivery {
		assert.Equal(t, expected, deliveryFit(&models.VendorReliabilityProfile{AvgDeliveryHours: hours}), "hours=%v", hours)
	}

	reliability := map[int]float64{100: 1.0, 95: 1.0, 94: 0.72, 90: 0.72, 89: 0.4, 80: 0.4, 79: 0, 0: 0}
	for rate, expected := range reliability {
		p := &models.VendorReliabilityProfile{FulfillmentRate: rate, TotalOrders: 10}
		assert.Equal(t, expected, reliabilityFit(p), "rate=%d", rate)
	}
}

func TestPaymentFit(t *testing.T) {
	cardOnly := &models.VendorReliabilityProfile{SupportsCard: true}
	nothing := &models.VendorReliabilityProfile{}

	assert.Equal(t, 1.0, paymentFit(&models.BuyerIntentProfile{PreferredPaymentType: "card"}, cardOnly))
	assert.Equal(t, 0.5, paymentFit(&models.BuyerIntentProfile{}, cardOnly))
	assert.Equal(t, 0.5, paymentFit(&models.BuyerIntentProfile{PreferredPaymentType: "chat"}, cardOnly))
	assert.Equal(t, 0.0, paymentFit(&models.BuyerIntentProfile{PreferredPaymentType: "chat"}, nothing))
}

func TestBuyerHistoryFit(t *testing.T) {
	vendor := &models.VendorReliabilityProfile{BusinessID: "biz-9"}
	buyer := &models.BuyerIntentProfile{PastCategories: []string{"phones"}}

	assert.Equal(t, 0.5, buyerHistoryFit(buyer, vendor, []string{"Phones", "Cases"}))
	assert.Equal(t, 0.0, buyerHistoryFit(buyer, vendor, []string{"shoes"}))
	assert.Equal(t, 0.0, buyerHistoryFit(buyer, vendor, nil))

	buyer.VendorHistory = map[string]int{"biz-9": 1}
	assert.Equal(t, 1.0, buyerHistoryFit(buyer, vendor, nil))
}

// ==========================
// Property Tests
// ==========================

func vendorGrid() []*models.VendorReliabilityProfile {
	var out []*models.VendorReliabilityProfile
	for _, flagged := range []bool{false, true} {
		for _, orders := range []int{0, 40} {
			for _, rate := range []int{0, 85, 99} {
				for _, tier := range []int{0, 2, 3} {
					out = append(out, &models.VendorReliabilityProfile{
						BusinessID:        "biz-grid",
						Flagged:           flagged,
						TotalOrders:       orders,
						FulfillmentRate:   rate,
						VerificationTier:  tier,
						AvgDeliveryHours:  float64(rate),
						DisputeRate:       float64(tier),
						StockAccuracyRate: rate,
						TotalReviews:      orders,
						AverageRating:     4.6,
						State:             "Lagos",
						SupportsChat:      true,
					})
				}
			}
		}
	}
	return out
}

func TestScore_TotalBoundsAndFlagCap(t *testing.T) {
	weights := models.MatchWeights{Location: 50, Delivery: 50, Reliability: 50, PaymentFit: 50, VendorQuality: 50, BuyerHistory: 50}
	for _, vendor := range vendorGrid() {
		res := Score(Input{
			Buyer:        repeatBuyer(),
			Vendor:       vendor,
			Weights:      weights,
			Premium:      true,
			PremiumBonus: 20,
		})
		assert.GreaterOrEqual(t, res.Breakdown.Total, 0)
		assert.LessOrEqual(t, res.Breakdown.Total, 100)
		if vendor.Flagged {
			assert.LessOrEqual(t, res.Breakdown.Total, FlaggedCeiling)
		}
	}
}

func TestScore_RepeatBuyerGetsFullHistoryWeight(t *testing.T) {
	buyer := &models.BuyerIntentProfile{VendorHistory: map[string]int{"biz-grid": 1}}
	for _, vendor := range vendorGrid() {
		res := Score(Input{Buyer: buyer, Vendor: vendor, Weights: defaultWeights()})
		assert.Equal(t, 15, res.Breakdown.BuyerHistory)
	}
}

func TestScoreToLabel_PartitionsRange(t *testing.T) {
	for total := 0; total <= 100; total++ {
		label := ScoreToLabel(total).Label
		switch {
		case total >= 85:
			assert.Equal(t, models.LabelBestMatch, label, "total=%d", total)
		case total >= 70:
			assert.Equal(t, models.LabelRecommended, label, "total=%d", total)
		case total >= 50:
			assert.Equal(t, models.LabelFairMatch, label, "total=%d", total)
		default:
			assert.Equal(t, models.LabelLowMatch, label, "total=%d", total)
		}
	}
}

func TestScore_NoClausesMeansEmptyReason(t *testing.T) {
	vendor := &models.VendorReliabilityProfile{BusinessID: "biz-quiet", TotalOrders: 10, FulfillmentRate: 50, DisputeRate: 9}
	res := Score(Input{Buyer: &models.BuyerIntentProfile{State: "Oyo"}, Vendor: vendor, Weights: defaultWeights()})
	assert.Empty(t, res.Reason)
}
