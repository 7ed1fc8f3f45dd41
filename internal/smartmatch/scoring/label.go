// internal/smartmatch/scoring/label.go
package scoring

import (
	"fmt"
	"strings"

	"smartmatch-workers/internal/models"
)

const (
	maxReasonClauses = 3
	reasonSeparator  = " · "
)

// ScoreToLabel bands: [85,100] best, [70,85) recommended, [50,70) fair, [0,50) low.
func ScoreToLabel(total int) models.MatchLabel {
	switch {
	case total >= 85:
		return models.MatchLabel{Label: models.LabelBestMatch, Text: "Best Match"}
	case total >= 70:
		return models.MatchLabel{Label: models.LabelRecommended, Text: "Recommended"}
	case total >= 50:
		return models.MatchLabel{Label: models.LabelFairMatch, Text: "Fair Match"}
	default:
		return models.MatchLabel{Label: models.LabelLowMatch}
	}
}

// buildReason returns at most three clauses. Flagged vendors get no explanation.
func buildReason(buyer *models.BuyerIntentProfile, vendor *models.VendorReliabilityProfile, w models.MatchWeights, b models.MatchScoreBreakdown) string {
	if vendor.Flagged {
		return ""
	}

	var clauses []string
	add := func(ok bool, clause string) {
		if ok && len(clauses) < maxReasonClauses {
			clauses = append(clauses, clause)
		}
	}

	add(clears(b.Location, w.Location) && locationFit(buyer, vendor) > 0.5, "Near you")
	add(vendor.AvgDeliveryHours > 0 && vendor.AvgDeliveryHours <= 24, "Delivers fast")
	add(vendor.HasOrders() && vendor.FulfillmentRate >= 90,
		fmt.Sprintf("%d%% fulfillment rate", vendor.FulfillmentRate))
	switch {
	case vendor.ApexBadgeActive:
		add(true, "Apex trusted seller")
	case vendor.VerificationTier >= 2:
		add(true, "Verified seller")
	}
	add(vendor.HasOrders() && vendor.DisputeRate <= 1, "Low dispute rate")
	add(vendor.TotalReviews > 0 && vendor.AverageRating >= 4.0,
		fmt.Sprintf("Rated %.1f★", vendor.AverageRating))
	add(clears(b.BuyerHistory, w.BuyerHistory) && buyer.VendorHistory[vendor.BusinessID] > 0, "You've ordered before")

	return strings.Join(clauses, reasonSeparator)
}

// clears reports whether a sub-score reached 80% of its factor's weight.
func clears(score, weight int) bool {
	return weight > 0 && score*5 >= weight*4
}
