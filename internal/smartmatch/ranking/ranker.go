// internal/smartmatch/ranking/ranker.go
package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/common/metrics"
	"smartmatch-workers/internal/models"
	"smartmatch-workers/internal/smartmatch/intent"
	"smartmatch-workers/internal/smartmatch/scoring"
)

var tracer = otel.Tracer("smartmatch-workers/ranking")

type ConfigProvider interface {
	Get(ctx context.Context) models.SmartMatchConfig
}

type ProfileSource interface {
	GetMany(ctx context.Context, ids []string) map[string]*models.VendorReliabilityProfile
}

// ScoreCache holds serialized responses. Get returns nil, nil on a miss.
type ScoreCache interface {
	Get(ctx context.Context, hash string) ([]byte, error)
	Set(ctx context.Context, hash string, data []byte, ttl time.Duration) error
}

type Candidate struct {
	ProductID  string   `json:"productId"`
	BusinessID string   `json:"businessId"`
	Categories []string `json:"categories,omitempty"`
	Premium    bool     `json:"premium,omitempty"`
}

type Request struct {
	Filter       intent.Filter            `json:"filter"`
	OrderHistory []intent.HistoricalOrder `json:"orderHistory,omitempty"`
	Candidates   []Candidate              `json:"candidates"`
}

type RankedCandidate struct {
	ProductID  string                      `json:"productId"`
	BusinessID string                      `json:"businessId"`
	Score      *models.MatchScoreBreakdown `json:"score,omitempty"`
	Label      *models.MatchLabel          `json:"label,omitempty"`
	Reason     string                      `json:"reason,omitempty"`
}

type Response struct {
	Enabled bool              `json:"enabled"`
	Results []RankedCandidate `json:"results"`
	Hidden  int               `json:"hidden"`
	Cached  bool              `json:"cached"`
}

type Ranker struct {
	config   ConfigProvider
	profiles ProfileSource
	cache    ScoreCache
	logger   logger.Logger
}

// NewRanker builds a ranker. cache may be nil.
func NewRanker(config ConfigProvider, profiles ProfileSource, cache ScoreCache, log logger.Logger) *Ranker {
	return &Ranker{
		config:   config,
		profiles: profiles,
		cache:    cache,
		logger:   log.WithFields(map[string]interface{}{"component": "smartmatch-ranking"}),
	}
}

// Rank scores and orders the candidates for one buyer. With matching
// disabled the candidates come back in the order given, unscored.
func (r *Ranker) Rank(ctx context.Context, req Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "smartmatch.rank")
	defer span.End()
	span.SetAttributes(attribute.Int("smartmatch.candidates", len(req.Candidates)))

	cfg := r.config.Get(ctx)
	if !cfg.Enabled {
		return passthrough(req), nil
	}

	hash, err := requestHash(req, cfg)
	if err != nil {
		return nil, err
	}
	if cached := r.lookup(ctx, hash); cached != nil {
		span.SetAttributes(attribute.Bool("smartmatch.cached", true))
		return cached, nil
	}

	ids := make([]string, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		ids = append(ids, c.BusinessID)
	}
	profiles := r.profiles.GetMany(ctx, ids)
	buyer := intent.Build(req.Filter, req.OrderHistory)

	resp := &Response{Enabled: true, Results: make([]RankedCandidate, 0, len(req.Candidates))}
	for _, c := range req.Candidates {
		vendor, ok := profiles[c.BusinessID]
		if !ok {
			vendor = models.NeutralProfile(c.BusinessID)
		}

		res := scoring.Score(scoring.Input{
			Buyer:             &buyer,
			Vendor:            vendor,
			Weights:           cfg.Weights,
			ProductCategories: c.Categories,
			Premium:           c.Premium,
			PremiumBonus:      cfg.PremiumBonus,
			PremiumMinScore:   cfg.PremiumMinScore,
		})
		metrics.MatchScores.Observe(float64(res.Breakdown.Total))

		if cfg.HideThreshold > 0 && res.Breakdown.Total < cfg.HideThreshold {
			resp.Hidden++
			continue
		}

		breakdown, label := res.Breakdown, res.Label
		resp.Results = append(resp.Results, RankedCandidate{
			ProductID:  c.ProductID,
			BusinessID: c.BusinessID,
			Score:      &breakdown,
			Label:      &label,
			Reason:     res.Reason,
		})
	}

	sort.SliceStable(resp.Results, func(i, j int) bool {
		return resp.Results[i].Score.Total > resp.Results[j].Score.Total
	})

	r.store(ctx, hash, resp, time.Duration(cfg.ScoreCacheTTLMs)*time.Millisecond)
	return resp, nil
}

func passthrough(req Request) *Response {
	resp := &Response{Enabled: false, Results: make([]RankedCandidate, 0, len(req.Candidates))}
	for _, c := range req.Candidates {
		resp.Results = append(resp.Results, RankedCandidate{ProductID: c.ProductID, BusinessID: c.BusinessID})
	}
	return resp
}

func (r *Ranker) lookup(ctx context.Context, hash string) *Response {
	if r.cache == nil {
		return nil
	}
	data, err := r.cache.Get(ctx, hash)
	if err != nil {
		metrics.RankCacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("rank cache read failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if data == nil {
		metrics.RankCacheLookups.WithLabelValues("miss").Inc()
		return nil
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		metrics.RankCacheLookups.WithLabelValues("error").Inc()
		return nil
	}
	metrics.RankCacheLookups.WithLabelValues("hit").Inc()
	resp.Cached = true
	return &resp
}

func (r *Ranker) store(ctx context.Context, hash string, resp *Response, ttl time.Duration) {
	if r.cache == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, hash, data, ttl); err != nil {
		r.logger.Warn("rank cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// requestHash covers the active config as well as the request.
func requestHash(req Request, cfg models.SmartMatchConfig) (string, error) {
	data, err := json.Marshal(struct {
		Request Request                 `json:"request"`
		Config  models.SmartMatchConfig `json:"config"`
	}{req, cfg})
	if err != nil {
		return "", fmt.Errorf("encode rank request: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
