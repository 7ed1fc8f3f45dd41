// internal/workers/smartmatch/vendor-insights/models.go
package vendorinsights

import "smartmatch-workers/internal/models"

type Input struct {
	BusinessID string `json:"businessId"`
	Refresh    bool   `json:"refresh,omitempty"`
}

type Output struct {
	BusinessID string                           `json:"businessId"`
	Available  bool                             `json:"profileAvailable"`
	Recomputed bool                             `json:"recomputed"`
	Profile    *models.VendorReliabilityProfile `json:"profile,omitempty"`
	Insights   []models.VendorMatchInsight      `json:"insights"`
}
