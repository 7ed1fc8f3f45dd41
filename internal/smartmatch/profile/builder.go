// internal/smartmatch/profile/builder.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"smartmatch-workers/internal/models"
)

var (
	ErrVendorNotFound = errors.New("VENDOR_NOT_FOUND")
)

const (
	DefaultLookback  = 180 * 24 * time.Hour
	DefaultMaxOrders = 500

	maxDeliveryHours = 720.0
)

// DataSource exposes the read-only marketplace records a profile is built from.
// GetVendor returns (nil, nil) when the vendor does not exist.
type DataSource interface {
	GetVendor(ctx context.Context, businessID string) (*models.VendorRecord, error)
	ListOrders(ctx context.Context, businessID string, since time.Time, limit int) ([]models.Order, error)
	ListDisputes(ctx context.Context, businessID string, orderIDs []string) ([]models.Dispute, error)
	ListProducts(ctx context.Context, businessID string) ([]models.Product, error)
}

type Options struct {
	Lookback  time.Duration
	MaxOrders int
}

type Builder struct {
	source  DataSource
	options Options
	now     func() time.Time
}

func NewBuilder(source DataSource, opts Options) *Builder {
	if opts.Lookback <= 0 {
		opts.Lookback = DefaultLookback
	}
	if opts.MaxOrders <= 0 {
		opts.MaxOrders = DefaultMaxOrders
	}
	return &Builder{source: source, options: opts, now: time.Now}
}

func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

var (
	excludedStatuses = map[string]struct{}{
		"draft":     {},
		"abandoned": {},
		"expired":   {},
	}
	fulfilledStatuses = map[string]struct{}{
		"delivered":                 {},
		"completed":                 {},
		"fulfilled":                 {},
		"paid":                      {},
		"released_to_vendor_wallet": {},
	}
)

// Build aggregates a vendor's recent history into a reliability profile.
func (b *Builder) Build(ctx context.Context, businessID string) (*models.VendorReliabilityProfile, error) {
	now := b.now()

	vendor, err := b.source.GetVendor(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("get vendor %s: %w", businessID, err)
	}
	if vendor == nil {
		return nil, fmt.Errorf("%w: %s", ErrVendorNotFound, businessID)
	}

	orders, err := b.source.ListOrders(ctx, businessID, now.Add(-b.options.Lookback), b.options.MaxOrders)
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", businessID, err)
	}

	attempted := make([]models.Order, 0, len(orders))
	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		if _, skip := excludedStatuses[normalize(o.Status)]; skip {
			continue
		}
		attempted = append(attempted, o)
		orderIDs = append(orderIDs, o.ID)
	}

	disputes, err := b.source.ListDisputes(ctx, businessID, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list disputes for %s: %w", businessID, err)
	}

	products, err := b.source.ListProducts(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list products for %s: %w", businessID, err)
	}

	p := &models.VendorReliabilityProfile{
		BusinessID:       businessID,
		TotalOrders:      len(attempted),
		VerificationTier: vendor.VerificationTier,
		IsVerified:       vendor.VerificationTier >= 1,
		ApexBadgeActive:  vendor.ApexBadgeActive,
		State:            vendor.State,
		City:             vendor.City,
		Flagged:          vendor.SmartMatchFlagged,
		AverageRating:    vendor.ReviewSummary.AverageRating,
		TotalReviews:     vendor.ReviewSummary.TotalReviews,
		RatingScore:      vendor.ReviewSummary.RatingScore,
		ReviewTrend:      vendor.ReviewSummary.ReviewTrend,
		ComputedAtMs:     now.UnixMilli(),
	}

	fulfilled := fulfilledOrders(attempted)
	p.TotalCompletedOrders = len(fulfilled)
	if len(attempted) > 0 {
		p.FulfillmentRate = int(math.Round(float64(len(fulfilled)) / float64(len(attempted)) * 100))
	}
	p.AvgDeliveryHours = averageDeliveryHours(fulfilled)

	p.TotalDisputes = disputedOrderCount(disputes, orderIDs)
	if len(attempted) > 0 {
		p.DisputeRate = math.Round(float64(p.TotalDisputes)/float64(len(attempted))*1000) / 10
	}

	applyPaymentSupport(p, attempted, vendor.Subscription.ActivePaid(now.UnixMilli()))
	p.StockAccuracyRate = stockAccuracy(products)

	return p, nil
}

func fulfilledOrders(attempted []models.Order) []models.Order {
	var out []models.Order
	for _, o := range attempted {
		_, ok := fulfilledStatuses[normalize(o.Status)]
		if ok || normalize(o.EscrowStatus) == "released" {
			out = append(out, o)
		}
	}
	return out
}

// averageDeliveryHours ignores non-positive and implausibly long samples.
func averageDeliveryHours(fulfilled []models.Order) float64 {
	var sum float64
	var n int
	for _, o := range fulfilled {
		h := o.DeliveryDurationHours
		if h <= 0 && o.DeliveredAtMs > 0 && o.CreatedAtMs > 0 {
			h = float64(o.DeliveredAtMs-o.CreatedAtMs) / float64(time.Hour/time.Millisecond)
		}
		if h <= 0 || h >= maxDeliveryHours {
			continue
		}
		sum += h
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}

// disputedOrderCount counts attempted orders with at least one dispute.
func disputedOrderCount(disputes []models.Dispute, orderIDs []string) int {
	inWindow := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		inWindow[id] = struct{}{}
	}
	disputed := make(map[string]struct{})
	for _, d := range disputes {
		if _, ok := inWindow[d.OrderID]; ok {
			disputed[d.OrderID] = struct{}{}
		}
	}
	return len(disputed)
}

func applyPaymentSupport(p *models.VendorReliabilityProfile, attempted []models.Order, paidSubscription bool) {
	for _, o := range attempted {
		switch models.PaymentBucket(o.PaymentType) {
		case models.PaymentCard:
			p.SupportsCard = true
		case models.PaymentBankTransfer:
			p.SupportsBankTransfer = true
		case models.PaymentChat:
			p.SupportsChat = paidSubscription
		}
	}
}

// stockAccuracy is the in-stock share of physical products; services are ignored.
func stockAccuracy(products []models.Product) int {
	var physical, inStock int
	for _, pr := range products {
		t := normalize(pr.Type)
		if t != "" && t != "product" {
			continue
		}
		physical++
		if pr.Stock > 0 {
			inStock++
		}
	}
	if physical == 0 {
		return 100
	}
	return int(math.Round(float64(inStock) / float64(physical) * 100))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
