package sources

import (
	"context"
	"fmt"

	"storescout/internal/cache"
	"storescout/internal/models"
)

var demographicsSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"population", "households"},
	"properties": map[string]interface{}{
		"population":       map[string]interface{}{"type": "integer", "minimum": 0},
		"households":       map[string]interface{}{"type": "integer", "minimum": 0},
		"avgMonthlyIncome": map[string]interface{}{"type": "number", "minimum": 0},
		"incomeBand":       map[string]interface{}{"type": "string"},
	},
}

type demographicsResponse struct {
	Population       int64   `json:"population"`
	Households       int64   `json:"households"`
	AvgMonthlyIncome float64 `json:"avgMonthlyIncome"`
	IncomeBand       string  `json:"incomeBand"`
}

// FetchPopulation returns demographic statistics for an administrative area.
func (c *Client) FetchPopulation(ctx context.Context, adminCode string) (*models.PopulationMetrics, error) {
	key := cache.Key(SourcePopulation, adminCode)
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLMonthly, func(ctx context.Context) (*models.PopulationMetrics, error) {
		url := fmt.Sprintf("%s/v1/areas/%s/demographics", c.cfg.Demographics.BaseURL, adminCode)

		var resp demographicsResponse
		if err := c.fetchJSON(ctx, SourcePopulation, c.cfg.Demographics, url, demographicsSchema, &resp); err != nil {
			return nil, err
		}

		return &models.PopulationMetrics{
			ResidentPopulation: resp.Population,
			HouseholdCount:     resp.Households,
			AvgMonthlyIncome:   resp.AvgMonthlyIncome,
			IncomeBand:         resp.IncomeBand,
		}, nil
	})
}
