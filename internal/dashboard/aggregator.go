// Package dashboard aggregates the backend and chain-state queries into
// the derived view models served to clients.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/manuphil/balldash/internal/core/domain"
	"github.com/manuphil/balldash/internal/infra/backend"
	"github.com/manuphil/balldash/internal/metrics"
)

// Backend is the subset of the REST client the aggregator consumes.
type Backend interface {
	Dashboard(ctx context.Context) (*backend.Dashboard, error)
	CurrentPools(ctx context.Context) ([]backend.JackpotPool, error)
	UpcomingLotteries(ctx context.Context) ([]backend.Lottery, error)
	LotteryState(ctx context.Context) (*backend.LotteryState, error)
	Leaderboard(ctx context.Context, metric string, limit int) ([]backend.TokenHolding, error)
	Wins(ctx context.Context, addr string) ([]backend.Winner, error)
	Winners(ctx context.Context, filter backend.WinnerFilter) (*backend.Page[backend.Winner], error)
}

// Aggregator composes several independent, partially-overlapping
// backend queries into one consistent view model.
type Aggregator struct {
	api   Backend
	sched *Schedule
	log   *slog.Logger
	now   func() time.Time

	fanOutLimit int
}

// NewAggregator creates an aggregator over the backend client.
func NewAggregator(api Backend, sched *Schedule, log *slog.Logger) *Aggregator {
	return &Aggregator{
		api:         api,
		sched:       sched,
		log:         log,
		now:         time.Now,
		fanOutLimit: 8,
	}
}

// branches holds the recovered results of the concurrent fetches. A
// failed branch resolves to its zero value rather than aborting the
// whole aggregation.
type branches struct {
	dashboard *backend.Dashboard
	pools     []backend.JackpotPool
	upcoming  []backend.Lottery
	state     *backend.LotteryState
	failed    int
}

func (a *Aggregator) fetchAll(ctx context.Context) branches {
	var (
		b  branches
		mu sync.Mutex
		wg sync.WaitGroup
	)

	fail := func(branch string, err error) {
		a.log.Warn("Aggregation branch failed", "branch", branch, "error", err)
		metrics.AggregationBranchFailures.WithLabelValues(branch).Inc()
		mu.Lock()
		b.failed++
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		d, err := a.api.Dashboard(ctx)
		if err != nil {
			fail("dashboard", err)
			return
		}
		b.dashboard = d
	}()
	go func() {
		defer wg.Done()
		p, err := a.api.CurrentPools(ctx)
		if err != nil {
			fail("pools", err)
			return
		}
		b.pools = p
	}()
	go func() {
		defer wg.Done()
		u, err := a.api.UpcomingLotteries(ctx)
		if err != nil {
			fail("upcoming", err)
			return
		}
		b.upcoming = u
	}()
	go func() {
		defer wg.Done()
		s, err := a.api.LotteryState(ctx)
		if err != nil {
			fail("state", err)
			return
		}
		b.state = s
	}()
	wg.Wait()

	return b
}

// Aggregate fetches the dashboard summary, current jackpot pools,
// upcoming draws and on-chain lottery state concurrently and derives
// the display view. Any subset of the branches may fail without
// discarding the rest; only when every branch fails is an error
// returned, alongside a locally derived view so countdown targets stay
// usable.
func (a *Aggregator) Aggregate(ctx context.Context) (domain.DashboardView, error) {
	now := a.now()
	b := a.fetchAll(ctx)

	view := domain.DashboardView{
		Partial:     b.failed > 0,
		LastUpdated: now,
	}

	// Reconcile overlapping fields: chain state wins, cached pool and
	// dashboard values fill in, hardcoded defaults last.
	hourlyPool, hourlyPoolOK := findPool(b.pools, domain.DrawHourly)
	dailyPool, dailyPoolOK := findPool(b.pools, domain.DrawDaily)

	hourlyAmount, _ := resolve(
		chainAmount(b.state, func(s *backend.LotteryState) string { return s.HourlyJackpotSol }),
		fromQuery(backend.Amount(hourlyPool.CurrentAmountSol), hourlyPoolOK),
		0,
	)
	dailyAmount, _ := resolve(
		chainAmount(b.state, func(s *backend.LotteryState) string { return s.DailyJackpotSol }),
		fromQuery(backend.Amount(dailyPool.CurrentAmountSol), dailyPoolOK),
		0,
	)

	view.TotalParticipants, _ = resolve(
		chainCount(b.state, func(s *backend.LotteryState) int { return s.TotalParticipants }),
		cacheCount(b.dashboard, func(d *backend.Dashboard) int { return d.Stats.TotalParticipants }),
		0,
	)
	view.TotalTickets, _ = resolve(
		chainCount(b.state, func(s *backend.LotteryState) int { return s.TotalTickets }),
		cacheCount(b.dashboard, func(d *backend.Dashboard) int { return d.Stats.ActiveTickets }),
		0,
	)

	view.Hourly = domain.JackpotSnapshot{
		DrawType: domain.DrawHourly,
		Amount:   hourlyAmount,
		NextDraw: a.nextDraw(b.upcoming, domain.DrawHourly, now),
	}
	view.Daily = domain.JackpotSnapshot{
		DrawType: domain.DrawDaily,
		Amount:   dailyAmount,
		NextDraw: a.nextDraw(b.upcoming, domain.DrawDaily, now),
	}

	// Health requires on-chain confirmation; without it the view is
	// explicitly unknown, never silently healthy.
	switch {
	case b.state == nil:
		view.Health = domain.HealthUnknown
	case b.state.IsPaused || b.state.EmergencyStop:
		view.Health = domain.HealthDegraded
	default:
		view.Health = domain.HealthHealthy
	}

	if b.failed == 4 {
		metrics.SnapshotRefreshes.WithLabelValues("failed").Inc()
		return view, fmt.Errorf("all aggregation branches failed")
	}
	if view.Partial {
		metrics.SnapshotRefreshes.WithLabelValues("partial").Inc()
	} else {
		metrics.SnapshotRefreshes.WithLabelValues("full").Inc()
	}

	return view, nil
}

// nextDraw prefers a pending scheduled draw of the right type; without
// one the target is computed locally from the shared schedule rules.
func (a *Aggregator) nextDraw(upcoming []backend.Lottery, drawType domain.DrawType, now time.Time) time.Time {
	for _, l := range upcoming {
		if l.LotteryType != string(drawType) || l.Status != string(domain.DrawPending) {
			continue
		}
		if t, err := time.Parse(time.RFC3339, l.ScheduledTime); err == nil {
			return t
		}
		a.log.Warn("Unparseable scheduled time", "draw_type", drawType, "value", l.ScheduledTime)
	}
	return a.sched.Next(drawType, now)
}

func findPool(pools []backend.JackpotPool, drawType domain.DrawType) (backend.JackpotPool, bool) {
	for _, p := range pools {
		if p.LotteryType == string(drawType) {
			return p, true
		}
	}
	return backend.JackpotPool{}, false
}

func chainAmount(state *backend.LotteryState, field func(*backend.LotteryState) string) candidate[float64] {
	if state == nil || field(state) == "" {
		return absent[float64]()
	}
	return fromQuery(backend.Amount(field(state)), true)
}

func chainCount(state *backend.LotteryState, field func(*backend.LotteryState) int) candidate[int] {
	if state == nil || field(state) == 0 {
		return absent[int]()
	}
	return fromQuery(field(state), true)
}

func cacheCount(d *backend.Dashboard, field func(*backend.Dashboard) int) candidate[int] {
	if d == nil || field(d) == 0 {
		return absent[int]()
	}
	return fromQuery(field(d), true)
}
