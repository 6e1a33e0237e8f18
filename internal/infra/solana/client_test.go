package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testMint = "7qi1pPouJhaQiVoNmnAnGmTaJbs5rXRFZXbQAmPZYehd"

func tokenAccountsResponse(amount string, decimals int) string {
	return fmt.Sprintf(`{
		"jsonrpc": "2.0",
		"id": 1,
		"result": {
			"value": [{
				"account": {
					"data": {
						"parsed": {
							"info": {
								"tokenAmount": {"amount": %q, "decimals": %d}
							}
						}
					}
				}
			}]
		}
	}`, amount, decimals)
}

func TestClient_TokenBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
			return
		}
		if body["method"] != "getTokenAccountsByOwner" {
			t.Errorf("expected getTokenAccountsByOwner, got %v", body["method"])
		}
		params, ok := body["params"].([]any)
		if !ok || len(params) != 3 {
			t.Fatalf("expected 3 params, got %v", body["params"])
		}
		if params[0] != "ownerWallet111" {
			t.Errorf("expected owner param, got %v", params[0])
		}
		if filter, ok := params[1].(map[string]any); !ok || filter["mint"] != testMint {
			t.Errorf("expected mint filter, got %v", params[1])
		}

		_, _ = w.Write([]byte(tokenAccountsResponse("12500000000000", 9)))
	}))
	defer server.Close()

	c := NewClient(server.URL, testMint, 5*time.Second)
	defer c.Close()

	balance, err := c.TokenBalance(context.Background(), "ownerWallet111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 12500 {
		t.Errorf("expected balance 12500, got %v", balance)
	}
}

func TestClient_TokenBalance_NoAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"value":[]}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, testMint, 5*time.Second)
	defer c.Close()

	balance, err := c.TokenBalance(context.Background(), "freshWallet")
	if err != nil {
		t.Fatalf("zero accounts must not error: %v", err)
	}
	if balance != 0 {
		t.Errorf("expected balance 0, got %v", balance)
	}
}

func TestClient_Call_RPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid param"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, testMint, 5*time.Second)
	defer c.Close()

	_, err := c.TokenBalance(context.Background(), "badWallet")
	if err == nil {
		t.Fatal("expected rpc error")
	}
}

func TestClient_Call_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(server.URL, testMint, 5*time.Second)
	defer c.Close()

	_, err := c.Call(context.Background(), "getHealth", nil)
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
}
