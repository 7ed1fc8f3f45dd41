// internal/smartmatch/scoring/factors.go
package scoring

import (
	"strings"

	"smartmatch-workers/internal/models"
)

// Each factor returns the fraction of its weight earned, in [0,1].

func locationFit(buyer *models.BuyerIntentProfile, vendor *models.VendorReliabilityProfile) float64 {
	bState, bCity := norm(buyer.State), norm(buyer.City)
	vState, vCity := norm(vendor.State), norm(vendor.City)

	if bState == "" && bCity == "" {
		return 0.5
	}
	if bCity != "" && vCity != "" {
		if bCity == vCity {
			return 1.0
		}
		if strings.Contains(bCity, vCity) || strings.Contains(vCity, bCity) {
			return 0.85
		}
	}
	if bState != "" && vState != "" {
		if bState == vState {
			return 0.72
		}
		if strings.Contains(bState, vState) || strings.Contains(vState, bState) {
			return 0.6
		}
	}
	if vState != "" {
		return 0.4
	}
	return 0
}

func deliveryFit(vendor *models.VendorReliabilityProfile) float64 {
	h := vendor.AvgDeliveryHours
	switch {
	case h <= 0:
		return 0.3
	case h <= 24:
		return 1.0
	case h <= 72:
		return 0.67
	case h <= 168:
		return 0.33
	default:
		return 0
	}
}

// reliabilityFit treats a vendor with no attempted orders as neutral, not bad.
func reliabilityFit(vendor *models.VendorReliabilityProfile) float64 {
	if !vendor.HasOrders() {
		return 0.4
	}
	r := vendor.FulfillmentRate
	switch {
	case r >= 95:
		return 1.0
	case r >= 90:
		return 0.72
	case r >= 80:
		return 0.4
	default:
		return 0
	}
}

func paymentFit(buyer *models.BuyerIntentProfile, vendor *models.VendorReliabilityProfile) float64 {
	supports := map[string]bool{
		models.PaymentCard:         vendor.SupportsCard,
		models.PaymentBankTransfer: vendor.SupportsBankTransfer,
		models.PaymentChat:         vendor.SupportsChat,
	}
	pref := buyer.PreferredPaymentType
	if pref == "" {
		return 0.5
	}
	if supports[pref] {
		return 1.0
	}
	if vendor.SupportsCard || vendor.SupportsBankTransfer || vendor.SupportsChat {
		return 0.5
	}
	return 0
}

// vendorQualityFit blends verification 35%, disputes 25%, stock 15% and rating 25%.
func vendorQualityFit(vendor *models.VendorReliabilityProfile) float64 {
	return 0.35*verificationTierFit(vendor) +
		0.25*disputeFit(vendor) +
		0.15*stockFit(vendor) +
		0.25*ratingFit(vendor)
}

func verificationTierFit(vendor *models.VendorReliabilityProfile) float64 {
	switch {
	case vendor.ApexBadgeActive || vendor.VerificationTier >= 3:
		return 1.0
	case vendor.VerificationTier == 2:
		return 0.8
	case vendor.VerificationTier == 1:
		return 0.6
	default:
		return 0
	}
}

func disputeFit(vendor *models.VendorReliabilityProfile) float64 {
	if !vendor.HasOrders() {
		return 0.6
	}
	d := vendor.DisputeRate
	switch {
	case d <= 1:
		return 1.0
	case d <= 3:
		return 0.7
	case d <= 5:
		return 0.4
	default:
		return 0
	}
}

func stockFit(vendor *models.VendorReliabilityProfile) float64 {
	s := vendor.StockAccuracyRate
	switch {
	case s >= 90:
		return 1.0
	case s >= 70:
		return 0.6
	case s >= 50:
		return 0.3
	default:
		return 0
	}
}

func ratingFit(vendor *models.VendorReliabilityProfile) float64 {
	if vendor.TotalReviews == 0 {
		return 0.4
	}
	r := vendor.AverageRating
	switch {
	case r >= 4.5:
		return 1.0
	case r >= 4.0:
		return 0.8
	case r >= 3.5:
		return 0.5
	case r >= 3.0:
		return 0.25
	default:
		return 0
	}
}

func buyerHistoryFit(buyer *models.BuyerIntentProfile, vendor *models.VendorReliabilityProfile, productCategories []string) float64 {
	if buyer.VendorHistory[vendor.BusinessID] > 0 {
		return 1.0
	}
	if len(buyer.PastCategories) == 0 || len(productCategories) == 0 {
		return 0
	}
	past := make(map[string]struct{}, len(buyer.PastCategories))
	for _, c := range buyer.PastCategories {
		past[norm(c)] = struct{}{}
	}
	for _, c := range productCategories {
		if _, ok := past[norm(c)]; ok {
			return 0.5
		}
	}
	return 0
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
