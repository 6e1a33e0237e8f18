// Package solana implements the JSON-RPC client for the public chain
// endpoint. Only the token-account balance query is needed here; the
// rest of the chain state arrives mirrored through the backend.
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/manuphil/balldash/internal/metrics"
)

// Client makes JSON-RPC calls against a Solana RPC endpoint.
type Client struct {
	endpoint   string
	mint       string
	httpClient *http.Client
}

// NewClient creates a new chain RPC client bound to a token mint.
func NewClient(endpoint, mint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		mint:     mint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Close cleans up resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Call makes a single JSON-RPC call and returns the raw result.
func (c *Client) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ChainRPCCallsTotal.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ChainRPCCallsTotal.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ChainRPCCallsTotal.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		metrics.ChainRPCCallsTotal.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if rpcResp.Error != nil {
		metrics.ChainRPCCallsTotal.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	metrics.ChainRPCCallsTotal.WithLabelValues(method, "ok").Inc()
	return rpcResp.Result, nil
}

// tokenAccountsResult mirrors the jsonParsed shape of
// getTokenAccountsByOwner responses.
type tokenAccountsResult struct {
	Value []struct {
		Account struct {
			Data struct {
				Parsed struct {
					Info struct {
						TokenAmount struct {
							Amount   string `json:"amount"`
							Decimals int    `json:"decimals"`
						} `json:"tokenAmount"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"account"`
	} `json:"value"`
}

// TokenBalance returns the owner's balance of the configured mint in
// decimal-normalized units (raw amount divided by 10^decimals).
// A wallet with zero matching token accounts is a valid, common state
// and returns 0 without error.
func (c *Client) TokenBalance(ctx context.Context, owner string) (float64, error) {
	result, err := c.Call(ctx, "getTokenAccountsByOwner", []any{
		owner,
		map[string]any{"mint": c.mint},
		map[string]any{"encoding": "jsonParsed"},
	})
	if err != nil {
		return 0, err
	}

	var parsed tokenAccountsResult
	if err := json.Unmarshal(result, &parsed); err != nil {
		return 0, fmt.Errorf("parse token accounts: %w", err)
	}

	if len(parsed.Value) == 0 {
		return 0, nil
	}

	amount := parsed.Value[0].Account.Data.Parsed.Info.TokenAmount
	raw, err := strconv.ParseFloat(amount.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token amount %q: %w", amount.Amount, err)
	}

	return raw / math.Pow10(amount.Decimals), nil
}
