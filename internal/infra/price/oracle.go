// Package price fetches and caches a spot conversion rate from a
// third-party feed.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Oracle caches the last known spot price. On any fetch failure the
// previously cached value (or the configured default) is retained, so
// Spot never fails and price displays never blank out.
type Oracle struct {
	feedURL    string
	asset      string
	httpClient *http.Client
	log        *slog.Logger

	mu      sync.RWMutex
	spot    float64
	fetched time.Time
}

// NewOracle creates an oracle seeded with the fallback default.
func NewOracle(feedURL, asset string, defaultPrice float64, log *slog.Logger) *Oracle {
	return &Oracle{
		feedURL: feedURL,
		asset:   asset,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log:  log,
		spot: defaultPrice,
	}
}

// Spot returns the last known spot price in USD.
func (o *Oracle) Spot() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.spot
}

// LastFetched returns when a live value was last obtained; zero if the
// oracle has only ever served the default.
func (o *Oracle) LastFetched() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fetched
}

// Refresh fetches the feed once and updates the cache. The returned
// error is informational; the cached value is kept on failure.
func (o *Oracle) Refresh(ctx context.Context) error {
	q := url.Values{}
	q.Set("ids", o.asset)
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, "GET", o.feedURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		o.log.Warn("Price feed fetch failed, keeping cached value", "error", err)
		return fmt.Errorf("fetch price: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		o.log.Warn("Price feed returned non-OK status, keeping cached value", "status", resp.StatusCode)
		return fmt.Errorf("price feed http %d", resp.StatusCode)
	}

	// Feed shape: { "<asset>": { "usd": <number> } }
	var payload map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("parse price response: %w", err)
	}

	entry, ok := payload[o.asset]
	if !ok || entry.USD <= 0 {
		o.log.Warn("Price feed missing asset, keeping cached value", "asset", o.asset)
		return fmt.Errorf("price feed missing asset %q", o.asset)
	}

	o.mu.Lock()
	o.spot = entry.USD
	o.fetched = time.Now()
	o.mu.Unlock()

	return nil
}
