package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"storescout/internal/cache"
	"storescout/internal/models"
)

// poiPageSize is the sample size per keyword search; the upstream caps
// pages at 15 documents.
const poiPageSize = 15

var poiSearchSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"meta", "documents"},
	"properties": map[string]interface{}{
		"meta": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"total_count"},
			"properties": map[string]interface{}{
				"total_count": map[string]interface{}{"type": "integer", "minimum": 0},
			},
		},
		"documents": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "place_name"},
				"properties": map[string]interface{}{
					"id":                map[string]interface{}{"type": "string"},
					"place_name":        map[string]interface{}{"type": "string"},
					"category_name":     map[string]interface{}{"type": "string"},
					"distance":          map[string]interface{}{"type": "string"},
					"phone":             map[string]interface{}{"type": "string"},
					"road_address_name": map[string]interface{}{"type": "string"},
				},
			},
		},
	},
}

type poiSearchResponse struct {
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
	Documents []struct {
		ID              string `json:"id"`
		PlaceName       string `json:"place_name"`
		CategoryName    string `json:"category_name"`
		Distance        string `json:"distance"`
		Phone           string `json:"phone"`
		RoadAddressName string `json:"road_address_name"`
	} `json:"documents"`
}

var poiDetailSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id"},
	"properties": map[string]interface{}{
		"id":           map[string]interface{}{"type": "string"},
		"opening_date": map[string]interface{}{"type": "string"},
		"review_count": map[string]interface{}{"type": "integer", "minimum": 0},
		"rating":       map[string]interface{}{"type": "number", "minimum": 0},
	},
}

type poiDetailResponse struct {
	ID          string  `json:"id"`
	OpeningDate string  `json:"opening_date"`
	ReviewCount int     `json:"review_count"`
	Rating      float64 `json:"rating"`
}

// SearchPlaces runs the keyword search around an address and returns the
// upstream total plus one sampled page of places.
func (c *Client) SearchPlaces(ctx context.Context, address string, radiusM int, keyword string) (*models.PoiMetrics, error) {
	key := cache.Key(SourcePoi, address, strconv.Itoa(radiusM), keyword)
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLDaily, func(ctx context.Context) (*models.PoiMetrics, error) {
		u := fmt.Sprintf("%s/v2/search?query=%s&address=%s&radius=%d&size=%d",
			c.cfg.PoiSearch.BaseURL,
			url.QueryEscape(keyword), url.QueryEscape(address), radiusM, poiPageSize)

		var resp poiSearchResponse
		if err := c.fetchJSON(ctx, SourcePoi, c.cfg.PoiSearch, u, poiSearchSchema, &resp); err != nil {
			return nil, err
		}

		places := make([]models.Place, 0, len(resp.Documents))
		for _, d := range resp.Documents {
			dist, _ := strconv.ParseFloat(d.Distance, 64)
			places = append(places, models.Place{
				ID:             d.ID,
				Name:           d.PlaceName,
				Category:       d.CategoryName,
				DistanceMeters: dist,
				Phone:          d.Phone,
				RoadAddress:    d.RoadAddressName,
			})
		}

		return &models.PoiMetrics{
			TotalCount: resp.Meta.TotalCount,
			Places:     places,
		}, nil
	})
}

// FetchPlaceDetail looks up the second-wave detail record for one place.
func (c *Client) FetchPlaceDetail(ctx context.Context, placeID string) (*models.PlaceDetail, error) {
	key := cache.Key(SourcePoi, "detail", placeID)
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLDaily, func(ctx context.Context) (*models.PlaceDetail, error) {
		u := fmt.Sprintf("%s/v2/places/%s", c.cfg.PoiSearch.BaseURL, url.PathEscape(placeID))

		var resp poiDetailResponse
		if err := c.fetchJSON(ctx, SourcePoi, c.cfg.PoiSearch, u, poiDetailSchema, &resp); err != nil {
			return nil, err
		}

		return &models.PlaceDetail{
			PlaceID:     resp.ID,
			OpeningDate: resp.OpeningDate,
			ReviewCount: resp.ReviewCount,
			Rating:      resp.Rating,
		}, nil
	})
}
