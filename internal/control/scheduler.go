package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// scheduler owns the periodic background jobs: token freshness, price
// refresh and the dashboard poll cycle.
type scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func newScheduler(log *slog.Logger) *scheduler {
	return &scheduler{cron: cron.New(), log: log}
}

func (s *scheduler) register(ctx context.Context, a *App) error {
	jobs := []struct {
		name string
		spec string
		fn   func()
	}{
		{
			name: "token-refresh",
			spec: fmt.Sprintf("@every %s", a.cfg.Backend.RefreshInterval),
			fn:   func() { a.api.EnsureFresh(ctx) },
		},
		{
			name: "price-refresh",
			spec: fmt.Sprintf("@every %s", a.cfg.Price.RefreshInterval),
			fn: func() {
				if err := a.oracle.Refresh(ctx); err != nil {
					s.log.Warn("Price refresh failed", "error", err)
				}
			},
		},
		{
			name: "dashboard-refresh",
			spec: fmt.Sprintf("@every %s", a.cfg.Dashboard.RefreshInterval),
			fn: func() {
				if _, err := a.views.Refresh(ctx); err != nil {
					s.log.Warn("Dashboard refresh failed", "error", err)
				}
			},
		},
	}

	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, j.fn); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", j.name, err)
		}
		s.log.Debug("Scheduled job", "job", j.name, "spec", j.spec)
	}
	return nil
}

func (s *scheduler) start() { s.cron.Start() }

func (s *scheduler) stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
