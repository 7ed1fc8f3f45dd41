// internal/models/smartmatch.go
package models

import "strings"

// Payment buckets used by vendor profiles and buyer intent.
const (
	PaymentCard         = "card"
	PaymentBankTransfer = "bank_transfer"
	PaymentChat         = "chat"
)

// VendorReliabilityProfile is the precomputed, cacheable summary of a vendor's
// track record. It is only valid while now-ComputedAtMs <= profile TTL.
type VendorReliabilityProfile struct {
	BusinessID           string  `json:"businessId"`
	FulfillmentRate      int     `json:"fulfillmentRate"`
	AvgDeliveryHours     float64 `json:"avgDeliveryHours"`
	DisputeRate          float64 `json:"disputeRate"`
	TotalOrders          int     `json:"totalOrders"`
	TotalCompletedOrders int     `json:"totalCompletedOrders"`
	TotalDisputes        int     `json:"totalDisputes"`
	IsVerified           bool    `json:"isVerified"`
	VerificationTier     int     `json:"verificationTier"`
	ApexBadgeActive      bool    `json:"apexBadgeActive"`
	State                string  `json:"state"`
	City                 string  `json:"city"`
	SupportsCard         bool    `json:"supportsCard"`
	SupportsBankTransfer bool    `json:"supportsBankTransfer"`
	SupportsChat         bool    `json:"supportsChat"`
	StockAccuracyRate    int     `json:"stockAccuracyRate"`
	AverageRating        float64 `json:"averageRating"`
	TotalReviews         int     `json:"totalReviews"`
	RatingScore          float64 `json:"ratingScore"`
	ReviewTrend          string  `json:"reviewTrend"`
	ComputedAtMs         int64   `json:"computedAtMs"`
	Flagged              bool    `json:"flagged"`
}

// HasOrders reports whether the vendor had any attempted order in the lookback
// window. Profiles stored without totalOrders still count when they carry a
// completed order or a non-zero fulfillment rate.
func (p *VendorReliabilityProfile) HasOrders() bool {
	return p.TotalOrders > 0 || p.TotalCompletedOrders > 0 || p.FulfillmentRate > 0
}

// NeutralProfile is used for candidates with no valid cached profile.
func NeutralProfile(businessID string) *VendorReliabilityProfile {
	return &VendorReliabilityProfile{
		BusinessID:        businessID,
		StockAccuracyRate: 100,
	}
}

// BuyerIntentProfile is built per request and never persisted.
type BuyerIntentProfile struct {
	State                string         `json:"state"`
	City                 string         `json:"city"`
	Category             string         `json:"category"`
	PriceMin             float64        `json:"priceMin"`
	PriceMax             float64        `json:"priceMax"`
	PreferredPaymentType string         `json:"preferredPaymentType"`
	PrefersPickup        bool           `json:"prefersPickup"`
	PrefersDelivery      bool           `json:"prefersDelivery"`
	VendorHistory        map[string]int `json:"vendorHistory"`
	PastCategories       []string       `json:"pastCategories"`
}

type MatchWeights struct {
	Location      int `json:"location"`
	Delivery      int `json:"delivery"`
	Reliability   int `json:"reliability"`
	PaymentFit    int `json:"paymentFit"`
	VendorQuality int `json:"vendorQuality"`
	BuyerHistory  int `json:"buyerHistory"`
}

// SmartMatchConfig is the admin-editable singleton.
type SmartMatchConfig struct {
	Enabled           bool         `json:"enabled"`
	Weights           MatchWeights `json:"weights"`
	HideThreshold     int          `json:"hideThreshold"`
	PremiumBonus      int          `json:"premiumBonus"`
	PremiumMinScore   int          `json:"premiumMinScore"`
	ProfileCacheTTLMs int64        `json:"profileCacheTtlMs"`
	ScoreCacheTTLMs   int64        `json:"scoreCacheTtlMs"`
}

type MatchScoreBreakdown struct {
	Location      int `json:"location"`
	Delivery      int `json:"delivery"`
	Reliability   int `json:"reliability"`
	PaymentFit    int `json:"paymentFit"`
	VendorQuality int `json:"vendorQuality"`
	BuyerHistory  int `json:"buyerHistory"`
	Total         int `json:"total"`
}

type MatchLabelKind string

const (
	LabelBestMatch   MatchLabelKind = "best_match"
	LabelRecommended MatchLabelKind = "recommended"
	LabelFairMatch   MatchLabelKind = "fair_match"
	LabelLowMatch    MatchLabelKind = "low_match"
)

type MatchLabel struct {
	Label MatchLabelKind `json:"label"`
	Text  string         `json:"text"`
}

type InsightStatus string

const (
	InsightGood    InsightStatus = "good"
	InsightImprove InsightStatus = "improve"
	InsightBad     InsightStatus = "bad"
)

type VendorMatchInsight struct {
	Factor string        `json:"factor"`
	Label  string        `json:"label"`
	Status InsightStatus `json:"status"`
	Value  string        `json:"value"`
	Tip    string        `json:"tip"`
}

var paymentAliases = map[string]string{
	"card":          PaymentCard,
	"debit_card":    PaymentCard,
	"credit_card":   PaymentCard,
	"paystack":      PaymentCard,
	"stripe":        PaymentCard,
	"flutterwave":   PaymentCard,
	"bank_transfer": PaymentBankTransfer,
	"transfer":      PaymentBankTransfer,
	"bank":          PaymentBankTransfer,
	"ussd":          PaymentBankTransfer,
	"chat":          PaymentChat,
	"whatsapp":      PaymentChat,
	"negotiate":     PaymentChat,
	"pay_on_chat":   PaymentChat,
}

// PaymentBucket maps a raw payment method name onto card, bank_transfer or chat.
// Unknown methods map to "".
func PaymentBucket(raw string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	return paymentAliases[key]
}
