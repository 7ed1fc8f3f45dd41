// internal/workers/smartmatch/rank-listings/models.go
package ranklistings

import (
	"smartmatch-workers/internal/smartmatch/intent"
	"smartmatch-workers/internal/smartmatch/ranking"
)

type Input struct {
	Filter       intent.Filter            `json:"filter"`
	OrderHistory []intent.HistoricalOrder `json:"orderHistory"`
	Candidates   []ranking.Candidate      `json:"candidates"`
}

type Output struct {
	SmartMatch *ranking.Response `json:"smartMatch"`
}
