// internal/smartmatch/insights/generator.go
package insights

import (
	"fmt"
	"strings"

	"smartmatch-workers/internal/models"
)

// Stable factor keys.
const (
	FactorFlagged        = "flagged"
	FactorFulfillment    = "fulfillment"
	FactorDelivery       = "delivery"
	FactorDispute        = "dispute"
	FactorVerification   = "verification"
	FactorPaymentOptions = "payment_options"
	FactorStockAccuracy  = "stock_accuracy"
)

// Generate explains a profile factor by factor for the vendor dashboard.
// The profile is never modified.
func Generate(p *models.VendorReliabilityProfile) []models.VendorMatchInsight {
	if p == nil {
		return []models.VendorMatchInsight{}
	}

	out := make([]models.VendorMatchInsight, 0, 7)
	if p.Flagged {
		out = append(out, models.VendorMatchInsight{
			Factor: FactorFlagged,
			Label:  "Account review",
			Status: models.InsightBad,
			Value:  "Under review",
			Tip:    "Your listings are ranked lower while your account is under review. Contact support to resolve it.",
		})
	}

	return append(out,
		fulfillment(p),
		delivery(p),
		dispute(p),
		verification(p),
		paymentOptions(p),
		stockAccuracy(p),
	)
}

func fulfillment(p *models.VendorReliabilityProfile) models.VendorMatchInsight {
	in := models.VendorMatchInsight{Factor: FactorFulfillment, Label: "Order fulfillment"}
	if !p.HasOrders() {
		in.Status = models.InsightImprove
		in.Value = "No orders yet"
		in.Tip = "Complete your first orders to build a fulfillment record."
		return in
	}
	in.Value = fmt.Sprintf("%d%%", p.FulfillmentRate)
	switch {
	case p.FulfillmentRate >= 95:
		in.Status = models.InsightGood
		in.Tip = "Great job. Keep fulfilling orders on time."
	case p.FulfillmentRate >= 80:
		in.Status = models.InsightImprove
		in.Tip = "Reach 95% fulfillment to rank higher. Only accept orders you can deliver."
	default:
		in.Status = models.InsightBad
		in.Tip = "Many orders are not completed. Keep stock updated and avoid cancelling accepted orders."
	}
	return in
}

func delivery(p *models.VendorReliabilityProfile) models.VendorMatchInsight {
	in := models.VendorMatchInsight{Factor: FactorDelivery, Label: "Delivery speed"}
	h := p.AvgDeliveryHours
	if h <= 0 {
		in.Status = models.InsightImprove
		in.Value = "Unknown"
		in.Tip = "Mark orders as delivered so buyers can see how fast you ship."
		return in
	}
	in.Value = formatHours(h)
	switch {
	case h <= 24:
		in.Status = models.InsightGood
		in.Tip = "Buyers love same-day and next-day delivery."
	case h <= 72:
		in.Status = models.InsightImprove
		in.Tip = "Deliver within 24 hours to earn the fast delivery boost."
	default:
		in.Status = models.InsightBad
		in.Tip = "Slow deliveries lower your ranking. Consider a faster dispatch partner."
	}
	return in
}

func dispute(p *models.VendorReliabilityProfile) models.VendorMatchInsight {
	in := models.VendorMatchInsight{Factor: FactorDispute, Label: "Dispute rate"}
	if !p.HasOrders() {
		in.Status = models.InsightGood
		in.Value = "0%"
		in.Tip = "No disputes so far."
		return in
	}
	in.Value = fmt.Sprintf("%.1f%%", p.DisputeRate)
	switch {
	case p.DisputeRate <= 2:
		in.Status = models.InsightGood
		in.Tip = "Low dispute rate. Keep product descriptions accurate."
	case p.DisputeRate <= 5:
		in.Status = models.InsightImprove
		in.Tip = "Reply to buyers quickly and describe items accurately to avoid disputes."
	default:
		in.Status = models.InsightBad
		in.Tip = "High dispute rate. Review recent disputes and fix recurring issues."
	}
	return in
}

func verification(p *models.VendorReliabilityProfile) models.VendorMatchInsight {
	in := models.VendorMatchInsight{Factor: FactorVerification, Label: "Verification"}
	switch {
	case p.ApexBadgeActive:
		in.Status = models.InsightGood
		in.Value = "Apex"
		in.Tip = "Your Apex badge gives you the strongest trust boost."
	case p.VerificationTier >= 2:
		in.Status = models.InsightGood
		in.Value = fmt.Sprintf("Tier %d", p.VerificationTier)
		in.Tip = "Upgrade to Apex for maximum trust."
	case p.VerificationTier == 1:
		in.Status = models.InsightImprove
		in.Value = "Tier 1"
		in.Tip = "Complete the next verification tier to rank higher."
	default:
		in.Status = models.InsightBad
		in.Value = "Not verified"
		in.Tip = "Verify your business to appear in more buyer searches."
	}
	return in
}

func paymentOptions(p *models.VendorReliabilityProfile) models.VendorMatchInsight {
	in := models.VendorMatchInsight{Factor: FactorPaymentOptions, Label: "Payment options"}

	var methods []string
	if p.SupportsCard {
		methods = append(methods, "Card")
	}
	if p.SupportsBankTransfer {
		methods = append(methods, "Bank transfer")
	}
	if p.SupportsChat {
		methods = append(methods, "Chat")
	}

	switch len(methods) {
	case 0:
		in.Status = models.InsightBad
		in.Value = "None"
		in.Tip = "Accept card or bank transfer payments so buyers can check out."
	case 1:
		in.Status = models.InsightImprove
		in.Value = methods[0]
		in.Tip = "Offer more payment methods to match more buyers."
	default:
		in.Status = models.InsightGood
		in.Value = strings.Join(methods, ", ")
		in.Tip = "You match most buyers' payment preferences."
	}
	return in
}

func stockAccuracy(p *models.VendorReliabilityProfile) models.VendorMatchInsight {
	in := models.VendorMatchInsight{
		Factor: FactorStockAccuracy,
		Label:  "Stock accuracy",
		Value:  fmt.Sprintf("%d%%", p.StockAccuracyRate),
	}
	switch {
	case p.StockAccuracyRate >= 90:
		in.Status = models.InsightGood
		in.Tip = "Your listings are in stock."
	case p.StockAccuracyRate >= 60:
		in.Status = models.InsightImprove
		in.Tip = "Restock or hide out-of-stock products."
	default:
		in.Status = models.InsightBad
		in.Tip = "Most of your products are out of stock. Update quantities to stay visible."
	}
	return in
}

func formatHours(h float64) string {
	if h < 48 {
		return fmt.Sprintf("%.1f hrs", h)
	}
	return fmt.Sprintf("%.1f days", h/24)
}
