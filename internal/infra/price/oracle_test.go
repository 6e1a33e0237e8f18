package price

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOracle_Refresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("ids") != "solana" || q.Get("vs_currencies") != "usd" {
			t.Errorf("unexpected query: %v", q)
		}
		_, _ = w.Write([]byte(`{"solana":{"usd":142.37}}`))
	}))
	defer server.Close()

	o := NewOracle(server.URL, "solana", 100, testLogger())
	if got := o.Spot(); got != 100 {
		t.Errorf("expected default 100 before refresh, got %v", got)
	}

	if err := o.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := o.Spot(); got != 142.37 {
		t.Errorf("expected 142.37, got %v", got)
	}
	if o.LastFetched().IsZero() {
		t.Error("expected LastFetched to be set after refresh")
	}
}

func TestOracle_Refresh_FailureKeepsCached(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"solana":{"usd":150}}`))
	}))
	defer server.Close()

	o := NewOracle(server.URL, "solana", 100, testLogger())
	if err := o.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	healthy = false
	if err := o.Refresh(context.Background()); err == nil {
		t.Fatal("expected error from failing feed")
	}
	if got := o.Spot(); got != 150 {
		t.Errorf("expected cached value 150 after failure, got %v", got)
	}
}

func TestOracle_Refresh_MissingAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":90000}}`))
	}))
	defer server.Close()

	o := NewOracle(server.URL, "solana", 100, testLogger())
	if err := o.Refresh(context.Background()); err == nil {
		t.Fatal("expected error for missing asset")
	}
	if got := o.Spot(); got != 100 {
		t.Errorf("expected default retained, got %v", got)
	}
	if !o.LastFetched().IsZero() {
		t.Error("expected zero LastFetched when only the default was served")
	}
}
