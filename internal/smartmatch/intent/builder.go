// internal/smartmatch/intent/builder.go
package intent

import (
	"strings"

	"smartmatch-workers/internal/models"
)

// Filter is the buyer's current search/filter state.
type Filter struct {
	State       string  `json:"state"`
	City        string  `json:"city"`
	Category    string  `json:"category"`
	PriceMin    float64 `json:"priceMin"`
	PriceMax    float64 `json:"priceMax"`
	PaymentType string  `json:"paymentType,omitempty"`
	Pickup      bool    `json:"pickup"`
	Delivery    bool    `json:"delivery"`
}

// HistoricalOrder is the slice of a past buyer order the intent needs.
type HistoricalOrder struct {
	BusinessID  string   `json:"businessId"`
	PaymentType string   `json:"paymentType"`
	Categories  []string `json:"categories"`
}

// Build derives a buyer intent profile. An explicit payment filter wins over
// the majority payment bucket from history.
func Build(filter Filter, history []HistoricalOrder) models.BuyerIntentProfile {
	profile := models.BuyerIntentProfile{
		State:           strings.TrimSpace(filter.State),
		City:            strings.TrimSpace(filter.City),
		Category:        strings.TrimSpace(filter.Category),
		PriceMin:        filter.PriceMin,
		PriceMax:        filter.PriceMax,
		PrefersPickup:   filter.Pickup,
		PrefersDelivery: filter.Delivery,
		VendorHistory:   make(map[string]int),
		PastCategories:  []string{},
	}

	votes := make(map[string]int)
	var order []string
	seen := make(map[string]struct{})
	for _, o := range history {
		if o.BusinessID != "" {
			profile.VendorHistory[o.BusinessID]++
		}
		if bucket := models.PaymentBucket(o.PaymentType); bucket != "" {
			if votes[bucket] == 0 {
				order = append(order, bucket)
			}
			votes[bucket]++
		}
		for _, c := range o.Categories {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" {
				continue
			}
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				profile.PastCategories = append(profile.PastCategories, c)
			}
		}
	}

	if explicit := models.PaymentBucket(filter.PaymentType); explicit != "" {
		profile.PreferredPaymentType = explicit
	} else {
		profile.PreferredPaymentType = majority(votes, order)
	}

	return profile
}

// majority picks the most used bucket; ties go to the bucket seen first.
func majority(votes map[string]int, order []string) string {
	best, bestCount := "", 0
	for _, b := range order {
		if votes[b] > bestCount {
			best, bestCount = b, votes[b]
		}
	}
	return best
}
