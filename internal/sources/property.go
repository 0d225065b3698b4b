package sources

import (
	"context"
	"fmt"

	"storescout/internal/cache"
	"storescout/internal/models"
)

var propertySchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"deals"},
	"properties": map[string]interface{}{
		"deals": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"amount"},
				"properties": map[string]interface{}{
					"amount":  map[string]interface{}{"type": "number", "minimum": 0},
					"areaSqm": map[string]interface{}{"type": "number", "minimum": 0},
				},
			},
		},
	},
}

type propertyResponse struct {
	Deals []struct {
		Amount  float64 `json:"amount"`
		AreaSqm float64 `json:"areaSqm"`
	} `json:"deals"`
}

// FetchProperty aggregates recent commercial property transactions for a
// district. The upstream publishes individual deals; averaging happens here.
func (c *Client) FetchProperty(ctx context.Context, districtCode, period string) (*models.PropertyMetrics, error) {
	key := cache.Key(SourceProperty, districtCode, period)
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLMonthly, func(ctx context.Context) (*models.PropertyMetrics, error) {
		url := fmt.Sprintf("%s/v1/deals?district=%s&period=%s",
			c.cfg.PropertyDeals.BaseURL, districtCode, period)

		var resp propertyResponse
		if err := c.fetchJSON(ctx, SourceProperty, c.cfg.PropertyDeals, url, propertySchema, &resp); err != nil {
			return nil, err
		}

		m := &models.PropertyMetrics{DealCount: len(resp.Deals)}
		if len(resp.Deals) == 0 {
			return m, nil
		}

		var amountSum, areaSum float64
		for _, d := range resp.Deals {
			amountSum += d.Amount
			areaSum += d.AreaSqm
		}
		m.AvgDealAmount = amountSum / float64(len(resp.Deals))
		m.AvgAreaSqm = areaSum / float64(len(resp.Deals))
		return m, nil
	})
}
