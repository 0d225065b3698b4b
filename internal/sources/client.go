// Package sources holds the adapters for the upstream public data providers.
// Every fetch goes through the cache and the retry wrapper; transient
// upstream conditions surface as retryable StandardErrors, malformed
// payloads as permanent ones.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storescout/internal/cache"
	"storescout/internal/common/config"
	stderrors "storescout/internal/common/errors"
	"storescout/internal/common/httpclient"
	"storescout/internal/common/logger"
	"storescout/internal/common/metrics"
	"storescout/internal/retry"
)

// Source name constants, used in cache keys, metrics and error metadata.
const (
	SourceBusiness   = "business-registry"
	SourceProperty   = "property-deals"
	SourcePopulation = "demographics"
	SourcePoi        = "poi-search"
	SourceFranchise  = "franchise-office"
	SourceVitality   = "vitality"
)

// Client bundles the adapters for all upstream providers.
type Client struct {
	cfg    config.SourcesConfig
	http   *httpclient.Client
	cache  *cache.Cache
	logger logger.Logger
}

func NewClient(cfg config.SourcesConfig, c *cache.Cache, log logger.Logger) *Client {
	timeout := time.Duration(maxTimeout(cfg)) * time.Millisecond
	return &Client{
		cfg:    cfg,
		http:   httpclient.NewClient(timeout),
		cache:  c,
		logger: log.WithFields(map[string]interface{}{"component": "sources"}),
	}
}

func maxTimeout(cfg config.SourcesConfig) int {
	max := 5000
	for _, src := range []config.SourceConfig{
		cfg.BusinessRegistry, cfg.PropertyDeals, cfg.Demographics,
		cfg.PoiSearch, cfg.FranchiseOffice, cfg.Vitality,
	} {
		if src.Timeout > max {
			max = src.Timeout
		}
	}
	return max
}

// fetchJSON performs the retried GET for one source, validates the payload
// against the source schema, and decodes into out.
func (c *Client) fetchJSON(ctx context.Context, source string, sc config.SourceConfig, url string, schema map[string]interface{}, out interface{}) error {
	headers := map[string]string{}
	if sc.APIKey != "" {
		headers["Authorization"] = "Bearer " + sc.APIKey
	}

	attempts := 0
	body, err := retry.Do(ctx, sc.MaxAttempts, func(ctx context.Context) ([]byte, error) {
		attempts++
		status, body, err := c.http.Get(ctx, url, headers)
		if err != nil {
			return nil, stderrors.NewSourceUnavailableError(source, err)
		}
		switch {
		case status >= 200 && status < 300:
			return body, nil
		case status == 429:
			return nil, stderrors.NewSourceRateLimitedError(source)
		case stderrors.RetryableStatus(status):
			return nil, stderrors.NewSourceUnavailableError(source, fmt.Errorf("upstream status %d", status))
		default:
			return nil, stderrors.NewSourceBadPayloadError(source, fmt.Errorf("unexpected status %d", status))
		}
	})
	if attempts > 1 {
		metrics.SourceRetries.WithLabelValues(source).Add(float64(attempts - 1))
	}
	if err != nil {
		metrics.SourceFetches.WithLabelValues(source, "error").Inc()
		return err
	}

	if err := validatePayload(source, schema, body); err != nil {
		metrics.SourceFetches.WithLabelValues(source, "invalid").Inc()
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.SourceFetches.WithLabelValues(source, "invalid").Inc()
		return stderrors.NewSourceBadPayloadError(source, err)
	}

	metrics.SourceFetches.WithLabelValues(source, "ok").Inc()
	return nil
}
