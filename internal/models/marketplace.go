// internal/models/marketplace.go
package models

// Read-only marketplace records consumed by the profile builder.

type Subscription struct {
	Plan        string `json:"plan"`
	Status      string `json:"status"`
	ExpiresAtMs int64  `json:"expiresAtMs"`
}

// ActivePaid reports whether the subscription is a non-free plan that is active at nowMs.
func (s Subscription) ActivePaid(nowMs int64) bool {
	if s.Status != "active" || s.Plan == "" || s.Plan == "free" {
		return false
	}
	return s.ExpiresAtMs == 0 || s.ExpiresAtMs > nowMs
}

type ReviewSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
	RatingScore   float64 `json:"ratingScore"`
	ReviewTrend   string  `json:"reviewTrend"`
}

type VendorRecord struct {
	ID                string        `json:"id"`
	State             string        `json:"state"`
	City              string        `json:"city"`
	VerificationTier  int           `json:"verificationTier"`
	ApexBadgeActive   bool          `json:"apexBadgeActive"`
	Subscription      Subscription  `json:"subscription"`
	ReviewSummary     ReviewSummary `json:"reviewSummary"`
	SmartMatchFlagged bool          `json:"smartMatchFlagged"`
}

type Order struct {
	ID                    string   `json:"id"`
	BusinessID            string   `json:"businessId"`
	Status                string   `json:"status"`
	EscrowStatus          string   `json:"escrowStatus"`
	PaymentType           string   `json:"paymentType"`
	CreatedAtMs           int64    `json:"createdAtMs"`
	DeliveredAtMs         int64    `json:"deliveredAtMs"`
	DeliveryDurationHours float64  `json:"deliveryDurationHours"`
	Categories            []string `json:"categories"`
}

type Dispute struct {
	ID         string `json:"id"`
	OrderID    string `json:"orderId"`
	BusinessID string `json:"businessId"`
}

type Product struct {
	ID         string   `json:"id"`
	BusinessID string   `json:"businessId"`
	Type       string   `json:"type"`
	Stock      int      `json:"stock"`
	Categories []string `json:"categories"`
}
