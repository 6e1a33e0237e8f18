package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/manuphil/balldash/internal/infra/backend"
)

func TestService_RefreshAdoptsView(t *testing.T) {
	api := &stubBackend{
		state: &backend.LotteryState{HourlyJackpotSol: "3.0", DailyJackpotSol: "40.0"},
	}
	svc := NewService(newTestAggregator(t, api), nil, 0, testLogger())

	if _, ok := svc.Latest(); ok {
		t.Fatal("expected no view before first refresh")
	}

	view, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	latest, ok := svc.Latest()
	if !ok {
		t.Fatal("expected a view after refresh")
	}
	if latest.Hourly.Amount != view.Hourly.Amount {
		t.Errorf("expected adopted view, got %+v", latest)
	}

	// Countdowns were retargeted from the view
	if !svc.Hourly().Target().Equal(view.Hourly.NextDraw) {
		t.Errorf("expected hourly target %v, got %v", view.Hourly.NextDraw, svc.Hourly().Target())
	}
	if !svc.Daily().Target().Equal(view.Daily.NextDraw) {
		t.Errorf("expected daily target %v, got %v", view.Daily.NextDraw, svc.Daily().Target())
	}
}

func TestService_TotalFailureKeepsPreviousView(t *testing.T) {
	boom := errors.New("backend unreachable")
	api := &stubBackend{
		state: &backend.LotteryState{HourlyJackpotSol: "3.0"},
	}
	svc := NewService(newTestAggregator(t, api), nil, 0, testLogger())

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every branch now fails; the adopted view must survive
	api.dashboardErr, api.poolsErr, api.upcomingErr, api.stateErr = boom, boom, boom, boom
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error when every branch fails")
	}

	latest, ok := svc.Latest()
	if !ok {
		t.Fatal("expected previous view retained")
	}
	if latest.Hourly.Amount != 3.0 {
		t.Errorf("expected previous jackpot 3.0, got %v", latest.Hourly.Amount)
	}
	// Countdown targets are still retargeted from the local fallback
	if svc.Hourly().State() != CountdownCounting {
		t.Error("expected hourly countdown to keep counting")
	}
}
