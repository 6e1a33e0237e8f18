package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/manuphil/balldash/internal/core/domain"
	"github.com/manuphil/balldash/internal/infra/rediscache"
)

const snapshotName = "dashboard"

// Service owns the latest aggregated view and the countdown engines.
// It is the single writer of the cached snapshot; readers get a copy.
type Service struct {
	agg   *Aggregator
	cache *rediscache.Client // nil when redis is not configured
	ttl   time.Duration
	log   *slog.Logger

	hourly *Countdown
	daily  *Countdown

	mu     sync.RWMutex
	latest domain.DashboardView
	has    bool

	runCtx context.Context
}

// NewService wires the aggregator to the countdown engines. cache may
// be nil.
func NewService(agg *Aggregator, cache *rediscache.Client, snapshotTTL time.Duration, log *slog.Logger) *Service {
	s := &Service{
		agg:   agg,
		cache: cache,
		ttl:   snapshotTTL,
		log:   log,
	}
	// Expiry of either countdown means a draw just completed; refetch
	// in the background to pick up its results.
	s.hourly = NewCountdown(domain.DrawHourly, agg.sched, s.expireRefresh, log)
	s.daily = NewCountdown(domain.DrawDaily, agg.sched, s.expireRefresh, log)
	return s
}

// Start loads any cached snapshot, performs the initial aggregation and
// launches the countdown tickers. The tickers stop when ctx is done.
func (s *Service) Start(ctx context.Context) {
	s.runCtx = ctx

	if s.cache != nil {
		var cached domain.DashboardView
		err := s.cache.GetSnapshot(ctx, snapshotName, &cached)
		switch {
		case err == nil:
			s.adopt(cached)
			s.log.Info("Adopted cached dashboard snapshot", "age", time.Since(cached.LastUpdated))
		case !errors.Is(err, rediscache.ErrMiss):
			s.log.Warn("Failed to load cached snapshot", "error", err)
		}
	}

	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warn("Initial dashboard aggregation failed", "error", err)
	}

	go s.hourly.Run(ctx)
	go s.daily.Run(ctx)
}

// Latest returns the most recent view, if any aggregation has succeeded.
func (s *Service) Latest() (domain.DashboardView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.has
}

// Hourly returns the hourly-draw countdown engine.
func (s *Service) Hourly() *Countdown { return s.hourly }

// Daily returns the daily-draw countdown engine.
func (s *Service) Daily() *Countdown { return s.daily }

// Refresh runs one aggregation and, on success, adopts the view and
// retargets the countdowns. On total failure the previous view is kept.
func (s *Service) Refresh(ctx context.Context) (domain.DashboardView, error) {
	view, err := s.agg.Aggregate(ctx)
	if err != nil {
		// Countdown targets from the locally derived view stay usable
		// even when every backend branch failed.
		s.retarget(view)
		return view, err
	}

	s.adopt(view)
	s.retarget(view)

	if s.cache != nil {
		if err := s.cache.PutSnapshot(ctx, snapshotName, view, s.ttl); err != nil {
			s.log.Warn("Failed to cache snapshot", "error", err)
		}
	}

	return view, nil
}

func (s *Service) adopt(view domain.DashboardView) {
	s.mu.Lock()
	s.latest = view
	s.has = true
	s.mu.Unlock()
}

func (s *Service) retarget(view domain.DashboardView) {
	if !view.Hourly.NextDraw.IsZero() {
		s.hourly.SetTarget(view.Hourly.NextDraw)
	}
	if !view.Daily.NextDraw.IsZero() {
		s.daily.SetTarget(view.Daily.NextDraw)
	}
}

// expireRefresh is the countdown expiry hook. The refetch runs against
// the service's run context: once the service is torn down the late
// result is discarded instead of being applied.
func (s *Service) expireRefresh() {
	ctx := s.runCtx
	if ctx == nil || ctx.Err() != nil {
		return
	}
	go func() {
		if _, err := s.Refresh(ctx); err != nil {
			s.log.Warn("Post-draw refresh failed", "error", err)
		}
	}()
}
