package sources

import (
	"context"
	"fmt"

	"storescout/internal/cache"
	"storescout/internal/models"
)

var vitalitySchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"quarterlySales", "salesCount", "changeIndex"},
	"properties": map[string]interface{}{
		"quarterlySales":  map[string]interface{}{"type": "integer", "minimum": 0},
		"salesCount":      map[string]interface{}{"type": "integer", "minimum": 0},
		"storeCount":      map[string]interface{}{"type": "integer", "minimum": 0},
		"changeIndex":     map[string]interface{}{"type": "string", "enum": []interface{}{"HH", "HL", "LH", "LL"}},
		"closeRate":       map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
		"openRate":        map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
		"peakTime":        map[string]interface{}{"type": "string"},
		"peakDay":         map[string]interface{}{"type": "string"},
		"dominantAgeBand": map[string]interface{}{"type": "string"},
		"footTraffic":     map[string]interface{}{"type": "integer", "minimum": 0},
		"residentsNearby": map[string]interface{}{"type": "integer", "minimum": 0},
	},
}

type vitalityResponse struct {
	QuarterlySales  int64   `json:"quarterlySales"`
	SalesCount      int     `json:"salesCount"`
	StoreCount      int     `json:"storeCount"`
	ChangeIndex     string  `json:"changeIndex"`
	CloseRate       float64 `json:"closeRate"`
	OpenRate        float64 `json:"openRate"`
	PeakTime        string  `json:"peakTime"`
	PeakDay         string  `json:"peakDay"`
	DominantAgeBand string  `json:"dominantAgeBand"`
	FootTraffic     *int64  `json:"footTraffic"`
	ResidentsNearby *int64  `json:"residentsNearby"`
}

// The municipal dataset encodes the change index as a two-letter code:
// survival dynamics first, closure dynamics second.
var changeIndexCodes = map[string]models.ChangeRegime{
	"HH": models.RegimeDynamic,
	"HL": models.RegimeExpanding,
	"LH": models.RegimeContracting,
	"LL": models.RegimeStagnant,
}

// FetchVitality returns the quarterly commercial-vitality record for a
// district. Only some regions publish this dataset; callers treat its
// absence as a normal partial-data condition.
func (c *Client) FetchVitality(ctx context.Context, districtCode, quarter string) (*models.VitalityMetrics, error) {
	key := cache.Key(SourceVitality, districtCode, quarter)
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLQuarterly, func(ctx context.Context) (*models.VitalityMetrics, error) {
		url := fmt.Sprintf("%s/v1/districts/%s/vitality?quarter=%s",
			c.cfg.Vitality.BaseURL, districtCode, quarter)

		var resp vitalityResponse
		if err := c.fetchJSON(ctx, SourceVitality, c.cfg.Vitality, url, vitalitySchema, &resp); err != nil {
			return nil, err
		}

		return &models.VitalityMetrics{
			QuarterlySales:  resp.QuarterlySales,
			SalesCount:      resp.SalesCount,
			StoreCount:      resp.StoreCount,
			ChangeIndex:     changeIndexCodes[resp.ChangeIndex],
			CloseRate:       resp.CloseRate,
			OpenRate:        resp.OpenRate,
			PeakTime:        resp.PeakTime,
			PeakDay:         resp.PeakDay,
			DominantAgeBand: resp.DominantAgeBand,
			FootTraffic:     resp.FootTraffic,
			ResidentsNearby: resp.ResidentsNearby,
		}, nil
	})
}
