// internal/workers/smartmatch/update-match-config/models.go
package updatematchconfig

import "smartmatch-workers/internal/models"

// Input carries a partial config document. Keys not present keep their
// stored values; nested weights are merged key by key.
type Input struct {
	Config    map[string]interface{} `json:"config"`
	UpdatedBy string                 `json:"updatedBy,omitempty"`
}

type Output struct {
	SmartMatchConfig models.SmartMatchConfig `json:"smartMatchConfig"`
	UpdatedKeys      []string                `json:"updatedKeys"`
}
