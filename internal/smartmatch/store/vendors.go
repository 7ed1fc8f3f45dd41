// internal/smartmatch/store/vendors.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"smartmatch-workers/internal/models"
)

// Postgres reads marketplace records and stores smart match documents.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const selectVendor = `
	SELECT id, state, city, verification_tier, apex_badge_active,
	       subscription_plan, subscription_status, subscription_expires_at,
	       average_rating, total_reviews, rating_score, review_trend,
	       smart_match_flagged
	FROM vendors WHERE id = $1`

// GetVendor returns (nil, nil) when no vendor row exists. NULL columns read as zero values.
func (s *Postgres) GetVendor(ctx context.Context, businessID string) (*models.VendorRecord, error) {
	var (
		state, city, plan, status, trend sql.NullString
		tier, totalReviews               sql.NullInt64
		apex, flagged                    sql.NullBool
		expiresAt                        sql.NullTime
		avgRating, ratingScore           sql.NullFloat64
		v                                models.VendorRecord
	)

	err := s.db.QueryRowContext(ctx, selectVendor, businessID).Scan(
		&v.ID, &state, &city, &tier, &apex,
		&plan, &status, &expiresAt,
		&avgRating, &totalReviews, &ratingScore, &trend,
		&flagged,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query vendor: %w", err)
	}

	v.State = state.String
	v.City = city.String
	v.VerificationTier = int(tier.Int64)
	v.ApexBadgeActive = apex.Bool
	v.SmartMatchFlagged = flagged.Bool
	v.Subscription = models.Subscription{
		Plan:        plan.String,
		Status:      status.String,
		ExpiresAtMs: millis(expiresAt),
	}
	v.ReviewSummary = models.ReviewSummary{
		AverageRating: avgRating.Float64,
		TotalReviews:  int(totalReviews.Int64),
		RatingScore:   ratingScore.Float64,
		ReviewTrend:   trend.String,
	}
	return &v, nil
}

const selectOrders = `
	SELECT id, status, escrow_status, payment_type, created_at, delivered_at,
	       delivery_duration_hours, categories
	FROM orders
	WHERE business_id = $1 AND created_at >= $2
	ORDER BY created_at DESC
	LIMIT $3`

func (s *Postgres) ListOrders(ctx context.Context, businessID string, since time.Time, limit int) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, selectOrders, businessID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var (
			status, escrow, payment sql.NullString
			createdAt, deliveredAt  sql.NullTime
			duration                sql.NullFloat64
			o                       = models.Order{BusinessID: businessID}
		)
		if err := rows.Scan(&o.ID, &status, &escrow, &payment, &createdAt, &deliveredAt,
			&duration, pq.Array(&o.Categories)); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = status.String
		o.EscrowStatus = escrow.String
		o.PaymentType = payment.String
		o.CreatedAtMs = millis(createdAt)
		o.DeliveredAtMs = millis(deliveredAt)
		o.DeliveryDurationHours = duration.Float64
		out = append(out, o)
	}
	return out, rows.Err()
}

const (
	selectDisputesByVendor = `SELECT id, order_id FROM disputes WHERE business_id = $1`
	selectDisputesByOrders = `SELECT id, order_id FROM disputes WHERE order_id = ANY($1)`
)

// ListDisputes looks disputes up by vendor and falls back to the order ids
// for disputes filed before business_id was recorded.
func (s *Postgres) ListDisputes(ctx context.Context, businessID string, orderIDs []string) ([]models.Dispute, error) {
	out, err := s.queryDisputes(ctx, businessID, selectDisputesByVendor, businessID)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 || len(orderIDs) == 0 {
		return out, nil
	}
	return s.queryDisputes(ctx, businessID, selectDisputesByOrders, pq.Array(orderIDs))
}

func (s *Postgres) queryDisputes(ctx context.Context, businessID, query string, arg interface{}) ([]models.Dispute, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query disputes: %w", err)
	}
	defer rows.Close()

	var out []models.Dispute
	for rows.Next() {
		var orderID sql.NullString
		d := models.Dispute{BusinessID: businessID}
		if err := rows.Scan(&d.ID, &orderID); err != nil {
			return nil, fmt.Errorf("scan dispute: %w", err)
		}
		d.OrderID = orderID.String
		out = append(out, d)
	}
	return out, rows.Err()
}

const selectProducts = `SELECT id, type, stock, categories FROM products WHERE business_id = $1`

func (s *Postgres) ListProducts(ctx context.Context, businessID string) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, selectProducts, businessID)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var (
			kind  sql.NullString
			stock sql.NullInt64
			p     = models.Product{BusinessID: businessID}
		)
		if err := rows.Scan(&p.ID, &kind, &stock, pq.Array(&p.Categories)); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Type = kind.String
		p.Stock = int(stock.Int64)
		out = append(out, p)
	}
	return out, rows.Err()
}

const selectVendorIDs = `SELECT id FROM vendors WHERE id > $1 ORDER BY id LIMIT $2`

// ListVendorIDs pages vendor ids in ascending order starting after afterID.
func (s *Postgres) ListVendorIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, selectVendorIDs, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query vendor ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan vendor id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func millis(t sql.NullTime) int64 {
	if !t.Valid {
		return 0
	}
	return t.Time.UnixMilli()
}
