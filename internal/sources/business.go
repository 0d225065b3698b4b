package sources

import (
	"context"
	"fmt"

	"storescout/internal/cache"
	"storescout/internal/models"
)

var businessSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"storeCount", "openedCount", "closedCount", "survivalRate"},
	"properties": map[string]interface{}{
		"storeCount":   map[string]interface{}{"type": "integer", "minimum": 0},
		"openedCount":  map[string]interface{}{"type": "integer", "minimum": 0},
		"closedCount":  map[string]interface{}{"type": "integer", "minimum": 0},
		"survivalRate": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
	},
}

type businessResponse struct {
	StoreCount   int     `json:"storeCount"`
	OpenedCount  int     `json:"openedCount"`
	ClosedCount  int     `json:"closedCount"`
	SurvivalRate float64 `json:"survivalRate"`
}

// FetchBusiness returns business-registry aggregates for a district.
func (c *Client) FetchBusiness(ctx context.Context, districtCode, industryCode string) (*models.BusinessMetrics, error) {
	key := cache.Key(SourceBusiness, districtCode, industryCode)
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLDaily, func(ctx context.Context) (*models.BusinessMetrics, error) {
		url := fmt.Sprintf("%s/v1/districts/%s/businesses?industry=%s",
			c.cfg.BusinessRegistry.BaseURL, districtCode, industryCode)

		var resp businessResponse
		if err := c.fetchJSON(ctx, SourceBusiness, c.cfg.BusinessRegistry, url, businessSchema, &resp); err != nil {
			return nil, err
		}

		return &models.BusinessMetrics{
			StoreCount:   resp.StoreCount,
			OpenedCount:  resp.OpenedCount,
			ClosedCount:  resp.ClosedCount,
			SurvivalRate: resp.SurvivalRate,
		}, nil
	})
}
