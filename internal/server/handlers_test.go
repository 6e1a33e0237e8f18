package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/manuphil/balldash/internal/dashboard"
	"github.com/manuphil/balldash/internal/infra/backend"
	"github.com/manuphil/balldash/internal/infra/price"
	"github.com/manuphil/balldash/internal/wallet"
)

// stubAPI serves canned backend responses to the aggregator.
type stubAPI struct {
	state   *backend.LotteryState
	holders []backend.TokenHolding
	winners *backend.Page[backend.Winner]
}

func (s *stubAPI) Dashboard(ctx context.Context) (*backend.Dashboard, error) {
	return &backend.Dashboard{}, nil
}

func (s *stubAPI) CurrentPools(ctx context.Context) ([]backend.JackpotPool, error) {
	return nil, nil
}

func (s *stubAPI) UpcomingLotteries(ctx context.Context) ([]backend.Lottery, error) {
	return nil, nil
}

func (s *stubAPI) LotteryState(ctx context.Context) (*backend.LotteryState, error) {
	return s.state, nil
}

func (s *stubAPI) Leaderboard(ctx context.Context, metric string, limit int) ([]backend.TokenHolding, error) {
	return s.holders, nil
}

func (s *stubAPI) Wins(ctx context.Context, addr string) ([]backend.Winner, error) {
	return nil, nil
}

func (s *stubAPI) Winners(ctx context.Context, filter backend.WinnerFilter) (*backend.Page[backend.Winner], error) {
	return s.winners, nil
}

// stubChain reads canned on-chain balances.
type stubChain struct {
	balances map[string]float64
}

func (c *stubChain) TokenBalance(ctx context.Context, owner string) (float64, error) {
	return c.balances[owner], nil
}

// stubInfo reads canned backend wallet records.
type stubInfo struct {
	infos map[string]*backend.WalletInfo
}

func (i *stubInfo) WalletInfo(ctx context.Context, addr string) (*backend.WalletInfo, error) {
	info, ok := i.infos[addr]
	if !ok {
		return nil, &backend.HTTPError{Status: 404, Body: "not found"}
	}
	return info, nil
}

func newTestServer(t *testing.T, api dashboard.Backend) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	sched, err := dashboard.NewSchedule("America/New_York")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	agg := dashboard.NewAggregator(api, sched, log)
	views := dashboard.NewService(agg, nil, 0, log)
	if _, err := views.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}

	oracle := price.NewOracle("http://unused.invalid", "solana", 100, log)
	wallets := wallet.NewManager(
		nil,
		&stubChain{balances: map[string]float64{"wallet1": 15000}},
		&stubInfo{infos: map[string]*backend.WalletInfo{
			"wallet1": {WalletAddress: "wallet1", CurrentBalance: "15000", TicketsCount: 1, IsEligible: true},
		}},
		10000,
		log,
	)

	s := New(0, 50, views, agg, oracle, wallets, log)
	ts := httptest.NewServer(s.server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestServer_Dashboard(t *testing.T) {
	ts := newTestServer(t, &stubAPI{
		state: &backend.LotteryState{
			HourlyJackpotSol:  "2.0",
			DailyJackpotSol:   "30.0",
			TotalParticipants: 10,
		},
	})

	var resp struct {
		Hourly struct {
			Amount    float64 `json:"amount"`
			AmountUSD float64 `json:"amount_usd"`
		} `json:"hourly"`
		Health       string  `json:"health"`
		SpotPriceUSD float64 `json:"spot_price_usd"`
	}
	if code := getJSON(t, ts.URL+"/api/dashboard", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Hourly.Amount != 2.0 {
		t.Errorf("expected hourly amount 2.0, got %v", resp.Hourly.Amount)
	}
	// USD conversion uses the oracle's default of 100
	if resp.Hourly.AmountUSD != 200 {
		t.Errorf("expected amount_usd 200, got %v", resp.Hourly.AmountUSD)
	}
	if resp.Health != "healthy" {
		t.Errorf("expected healthy, got %q", resp.Health)
	}
}

func TestServer_Leaderboard_BadType(t *testing.T) {
	ts := newTestServer(t, &stubAPI{})
	if code := getJSON(t, ts.URL+"/api/leaderboard?type=popularity", nil); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestServer_Leaderboard(t *testing.T) {
	ts := newTestServer(t, &stubAPI{
		holders: []backend.TokenHolding{
			{WalletAddress: "w1", Balance: "50000", TicketsCount: 5, IsEligible: true},
		},
	})

	var resp struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	}
	if code := getJSON(t, ts.URL+"/api/leaderboard?type=balance", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Type != "balance" || resp.Count != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestServer_Results_BadType(t *testing.T) {
	ts := newTestServer(t, &stubAPI{})
	if code := getJSON(t, ts.URL+"/api/results?type=weekly", nil); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestServer_WalletLookup(t *testing.T) {
	ts := newTestServer(t, &stubAPI{})

	var resp struct {
		Connected    bool    `json:"connected"`
		Address      string  `json:"address"`
		ChainBalance float64 `json:"chain_balance"`
		Eligible     bool    `json:"eligible"`
	}
	if code := getJSON(t, ts.URL+"/api/wallet/wallet1", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Address != "wallet1" || resp.ChainBalance != 15000 || !resp.Eligible {
		t.Errorf("unexpected wallet response: %+v", resp)
	}
}

func TestServer_SessionLifecycle(t *testing.T) {
	ts := newTestServer(t, &stubAPI{})

	// No session yet
	var status struct {
		Connected bool `json:"connected"`
	}
	if code := getJSON(t, ts.URL+"/api/session", &status); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if status.Connected {
		t.Error("expected no session initially")
	}

	// Missing address is rejected
	resp, err := http.Post(ts.URL+"/api/session/connect", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST connect: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing address, got %d", resp.StatusCode)
	}

	// Connect with an address
	resp, err = http.Post(ts.URL+"/api/session/connect", "application/json",
		strings.NewReader(`{"address":"wallet1"}`))
	if err != nil {
		t.Fatalf("POST connect: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if code := getJSON(t, ts.URL+"/api/session", &status); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !status.Connected {
		t.Error("expected connected session")
	}

	// Disconnect zeroes the session
	resp, err = http.Post(ts.URL+"/api/session/disconnect", "application/json", nil)
	if err != nil {
		t.Fatalf("POST disconnect: %v", err)
	}
	resp.Body.Close()
	if code := getJSON(t, ts.URL+"/api/session", &status); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if status.Connected {
		t.Error("expected disconnected session")
	}
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, &stubAPI{state: &backend.LotteryState{IsPaused: true}})

	var resp struct {
		Status string `json:"status"`
	}
	if code := getJSON(t, ts.URL+"/health", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Status != "degraded" {
		t.Errorf("expected degraded, got %q", resp.Status)
	}
}
