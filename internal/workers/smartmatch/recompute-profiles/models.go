// internal/workers/smartmatch/recompute-profiles/models.go
package recomputeprofiles

import "smartmatch-workers/internal/smartmatch/recompute"

// Input selects the vendors to recompute. An empty list means every vendor.
type Input struct {
	BusinessIDs []string `json:"businessIds,omitempty"`
}

type Output struct {
	Recompute *recompute.Result `json:"recompute"`
}
