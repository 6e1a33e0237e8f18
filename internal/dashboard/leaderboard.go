package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/manuphil/balldash/internal/core/domain"
	"github.com/manuphil/balldash/internal/infra/backend"
)

// Leaderboard returns the ranked list for a metric. Balance and ticket
// orderings come from the backend; the winnings view is derived here by
// enriching the top holders with their win history. Rank is always a
// strictly increasing sequence starting at 1.
func (a *Aggregator) Leaderboard(ctx context.Context, metric domain.LeaderboardMetric, limit int) ([]domain.LeaderboardEntry, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("unknown leaderboard metric %q", metric)
	}

	if metric == domain.MetricWinnings {
		return a.winningsLeaderboard(ctx, limit)
	}

	holdings, err := a.api.Leaderboard(ctx, string(metric), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s leaderboard: %w", metric, err)
	}

	entries := make([]domain.LeaderboardEntry, len(holdings))
	for i, h := range holdings {
		entries[i] = toEntry(h, i+1)
	}
	return entries, nil
}

// winningsLeaderboard fans out one win-history request per top holder,
// sums each holder's historical winnings, and re-ranks descending by
// that sum. A failed per-holder fetch contributes a zero sum; the entry
// is kept so the rank sequence has no gaps, at the cost of possibly
// stale ordering.
func (a *Aggregator) winningsLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	holdings, err := a.api.Leaderboard(ctx, string(domain.MetricBalance), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch top holders: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(holdings))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.fanOutLimit)
	for i, h := range holdings {
		i, h := i, h
		g.Go(func() error {
			var winnings float64
			wins, err := a.api.Wins(gctx, h.WalletAddress)
			if err != nil {
				a.log.Warn("Win history fetch failed, counting zero winnings",
					"wallet", h.WalletAddress, "error", err)
			} else {
				for _, w := range wins {
					winnings += backend.Amount(w.WinningAmountSol)
				}
			}

			entry := toEntry(h, 0)
			entry.Winnings = winnings
			mu.Lock()
			entries[i] = entry
			mu.Unlock()
			return nil
		})
	}
	// Per-holder errors never propagate; the group exists for bounding
	// concurrency and context cancellation only.
	_ = g.Wait()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Winnings > entries[j].Winnings
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Results returns one page of historical draw results, optionally
// filtered by draw type.
func (a *Aggregator) Results(ctx context.Context, drawType string, page, pageSize int) (domain.DrawResultPage, error) {
	resp, err := a.api.Winners(ctx, backend.WinnerFilter{
		LotteryType: drawType,
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		return domain.DrawResultPage{}, fmt.Errorf("fetch winners: %w", err)
	}

	results := make([]domain.DrawResult, len(resp.Results))
	for i, w := range resp.Results {
		results[i] = toDrawResult(w)
	}

	return domain.DrawResultPage{
		Total:   resp.Count,
		Page:    page,
		HasNext: resp.Next != nil,
		Results: results,
	}, nil
}

func toEntry(h backend.TokenHolding, rank int) domain.LeaderboardEntry {
	entry := domain.LeaderboardEntry{
		Rank:     rank,
		Wallet:   h.WalletAddress,
		Balance:  backend.Amount(h.Balance),
		Tickets:  h.TicketsCount,
		Winnings: backend.Amount(h.TotalWinnings),
		Eligible: h.IsEligible,
	}
	if t, err := time.Parse(time.RFC3339, h.LastUpdated); err == nil {
		entry.LastUpdated = t
	}
	return entry
}

func toDrawResult(w backend.Winner) domain.DrawResult {
	r := domain.DrawResult{
		DrawID:       w.LotteryID,
		DrawType:     domain.DrawType(w.LotteryType),
		Winner:       w.WalletAddress,
		AmountWon:    backend.Amount(w.WinningAmountSol),
		TicketsHeld:  w.TicketsHeld,
		PayoutStatus: domain.PayoutStatus(w.PayoutStatus),
	}
	if w.PayoutTxSig != nil {
		r.PayoutSig = *w.PayoutTxSig
	}
	if t, err := time.Parse(time.RFC3339, w.LotteryDate); err == nil {
		r.ExecutedAt = t
	}
	if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		r.RecordedAt = t
	}
	return r
}
