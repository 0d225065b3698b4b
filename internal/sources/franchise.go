package sources

import (
	"context"
	"fmt"

	"storescout/internal/cache"
	"storescout/internal/models"
)

var franchiseSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"items"},
	"properties": map[string]interface{}{
		"items": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"brandName"},
				"properties": map[string]interface{}{
					"brandName":   map[string]interface{}{"type": "string"},
					"outletCount": map[string]interface{}{"type": "integer", "minimum": 0},
				},
			},
		},
	},
}

type franchiseResponse struct {
	Items []struct {
		BrandName   string `json:"brandName"`
		OutletCount int    `json:"outletCount"`
	} `json:"items"`
}

// FetchFranchiseBrands returns the registered franchise brand names for an
// industry. An empty list is a valid answer; the scoring layer then falls
// back to its static catalog.
func (c *Client) FetchFranchiseBrands(ctx context.Context, industryCode string) (*models.FranchiseMetrics, error) {
	key := cache.Key(SourceFranchise, industryCode)
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLMonthly, func(ctx context.Context) (*models.FranchiseMetrics, error) {
		url := fmt.Sprintf("%s/v1/brands?industry=%s", c.cfg.FranchiseOffice.BaseURL, industryCode)

		var resp franchiseResponse
		if err := c.fetchJSON(ctx, SourceFranchise, c.cfg.FranchiseOffice, url, franchiseSchema, &resp); err != nil {
			return nil, err
		}

		brands := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.BrandName != "" {
				brands = append(brands, item.BrandName)
			}
		}
		return &models.FranchiseMetrics{Brands: brands}, nil
	})
}
