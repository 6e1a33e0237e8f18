// Package backend is the single point of outbound HTTP communication
// with the lottery REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manuphil/balldash/internal/metrics"
)

// Client issues authenticated requests to the lottery backend. One
// method per resource; every call attaches a bearer token when one is
// cached and fails with *HTTPError on any non-2xx response. There is
// no retry policy beyond the silent token refresh path.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	log        *slog.Logger

	// The cached access token is read-then-used per request. Mutation
	// only happens in the login/refresh path, which is serialized by
	// refreshMu.
	mu        sync.RWMutex
	access    string
	refresh   string
	refreshMu sync.Mutex
}

// NewClient creates a backend client. Previously persisted tokens are
// loaded from the store so a restart does not force re-authentication.
func NewClient(baseURL string, timeout time.Duration, store TokenStore, log *slog.Logger) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		store: store,
		log:   log,
	}

	if store != nil {
		access, refresh, err := store.Load(context.Background())
		if err != nil {
			log.Warn("Failed to load persisted tokens", "error", err)
		} else {
			c.access = access
			c.refresh = refresh
		}
	}

	return c
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.access
}

func (c *Client) do(ctx context.Context, resource, method, path string, query url.Values, body any) ([]byte, error) {
	start := time.Now()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(resource, "error").Inc()
		return nil, fmt.Errorf("backend call %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(resource, "error").Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	metrics.BackendLatency.WithLabelValues(resource).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendRequestsTotal.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Inc()
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	metrics.BackendRequestsTotal.WithLabelValues(resource, "ok").Inc()
	return respBody, nil
}

func get[T any](ctx context.Context, c *Client, resource, path string, query url.Values) (T, error) {
	var out T
	body, err := c.do(ctx, resource, http.MethodGet, path, query, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", resource, err)
	}
	return out, nil
}

func post[T any](ctx context.Context, c *Client, resource, path string, reqBody any) (T, error) {
	var out T
	body, err := c.do(ctx, resource, http.MethodPost, path, nil, reqBody)
	if err != nil {
		return out, err
	}
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", resource, err)
	}
	return out, nil
}

// Dashboard fetches the backend's aggregate summary.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	return get[*Dashboard](ctx, c, "dashboard", "/api/v1/dashboard/", nil)
}

// CurrentPools fetches the cached jackpot pools, one per draw type.
func (c *Client) CurrentPools(ctx context.Context) ([]JackpotPool, error) {
	return get[[]JackpotPool](ctx, c, "jackpots", "/api/v1/jackpots/current_pools/", nil)
}

// UpcomingLotteries fetches scheduled draws that have not executed yet.
func (c *Client) UpcomingLotteries(ctx context.Context) ([]Lottery, error) {
	return get[[]Lottery](ctx, c, "lotteries", "/api/v1/lotteries/upcoming/", nil)
}

// LotteryState fetches the mirrored on-chain program state.
func (c *Client) LotteryState(ctx context.Context) (*LotteryState, error) {
	return get[*LotteryState](ctx, c, "lottery_state", "/api/v1/dashboard/lottery_state/", nil)
}

// Holdings fetches one page of wallet holdings.
func (c *Client) Holdings(ctx context.Context, page, pageSize int) (*Page[TokenHolding], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return get[*Page[TokenHolding]](ctx, c, "holdings", "/api/v1/holdings/", q)
}

// TopHolders fetches the top wallets ordered by balance descending.
func (c *Client) TopHolders(ctx context.Context, limit int) ([]TokenHolding, error) {
	q := url.Values{}
	q.Set("ordering", "-balance")
	q.Set("page_size", strconv.Itoa(limit))
	page, err := get[*Page[TokenHolding]](ctx, c, "holdings", "/api/v1/holdings/", q)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Leaderboard fetches the server-side leaderboard for balance or
// tickets ordering. The winnings view is derived client-side instead;
// see the dashboard aggregator.
func (c *Client) Leaderboard(ctx context.Context, metric string, limit int) ([]TokenHolding, error) {
	q := url.Values{}
	q.Set("type", metric)
	q.Set("limit", strconv.Itoa(limit))
	resp, err := get[struct {
		Count   int            `json:"count"`
		Results []TokenHolding `json:"results"`
	}](ctx, c, "leaderboard", "/api/v1/wallet-info/leaderboard/", q)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// WalletInfo fetches the per-wallet detail record.
func (c *Client) WalletInfo(ctx context.Context, addr string) (*WalletInfo, error) {
	return get[*WalletInfo](ctx, c, "wallet_info", "/api/v1/wallet-info/"+url.PathEscape(addr)+"/", nil)
}

// Wins fetches one wallet's historical win records.
func (c *Client) Wins(ctx context.Context, addr string) ([]Winner, error) {
	q := url.Values{}
	q.Set("wallet_address", addr)
	return get[[]Winner](ctx, c, "wins", "/api/v1/winners/my_wins/", q)
}

// WinnerFilter narrows a winners query.
type WinnerFilter struct {
	LotteryType string // "", hourly, daily
	Page        int
	PageSize    int
}

// Winners fetches one page of payout history, optionally filtered by
// draw type.
func (c *Client) Winners(ctx context.Context, filter WinnerFilter) (*Page[Winner], error) {
	q := url.Values{}
	if filter.LotteryType != "" {
		q.Set("lottery_type", filter.LotteryType)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(filter.PageSize))
	}
	return get[*Page[Winner]](ctx, c, "winners", "/api/v1/winners/", q)
}

// RecentWinners fetches the latest winners, newest first.
func (c *Client) RecentWinners(ctx context.Context, limit int) ([]Winner, error) {
	q := url.Values{}
	q.Set("ordering", "-created_at")
	q.Set("page_size", strconv.Itoa(limit))
	page, err := get[*Page[Winner]](ctx, c, "winners", "/api/v1/winners/", q)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Stats fetches the global lottery statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	return get[*Stats](ctx, c, "stats", "/api/v1/stats/", nil)
}

// Transactions fetches one page of recorded token movements.
func (c *Client) Transactions(ctx context.Context, page, pageSize int) (*Page[Transaction], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return get[*Page[Transaction]](ctx, c, "transactions", "/api/v1/transactions/", q)
}
