// Package control wires the application together and manages its
// lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/manuphil/balldash/internal/core/config"
	"github.com/manuphil/balldash/internal/dashboard"
	"github.com/manuphil/balldash/internal/infra/backend"
	"github.com/manuphil/balldash/internal/infra/price"
	"github.com/manuphil/balldash/internal/infra/rediscache"
	"github.com/manuphil/balldash/internal/infra/solana"
	"github.com/manuphil/balldash/internal/server"
	"github.com/manuphil/balldash/internal/wallet"
)

// App is the main application struct that manages all components.
type App struct {
	cfg     *config.AppConfig
	log     *slog.Logger
	cache   *rediscache.Client
	api     *backend.Client
	chain   *solana.Client
	oracle  *price.Oracle
	views   *dashboard.Service
	agg     *dashboard.Aggregator
	wallets *wallet.Manager
	httpSrv *server.Server
	sched   *scheduler

	cancel context.CancelFunc
}

// NewApp creates an App with all dependencies initialized.
func NewApp(cfg *config.AppConfig, log *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	// 1. Optional Redis cache
	var store backend.TokenStore
	if cfg.Redis.Enabled() {
		cache, err := rediscache.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		app.cache = cache
		store = backend.NewRedisStore(cache)
		log.Info("Using Redis snapshot cache and token store")
	} else {
		store = backend.NewFileStore(cfg.Backend.TokenFile)
		log.Info("Using file token store", "path", cfg.Backend.TokenFile)
	}

	// 2. Outbound clients
	app.api = backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, store, log)
	app.chain = solana.NewClient(cfg.Solana.RPCURL, cfg.Solana.TokenMint, cfg.Solana.Timeout)
	app.oracle = price.NewOracle(cfg.Price.URL, cfg.Price.Asset, cfg.Price.Default, log)

	// 3. Aggregation core
	sched, err := dashboard.NewSchedule(cfg.Dashboard.TimeZone)
	if err != nil {
		return nil, err
	}
	app.agg = dashboard.NewAggregator(app.api, sched, log)
	// Snapshots outlive two refresh windows at most.
	app.views = dashboard.NewService(app.agg, app.cache, 2*cfg.Dashboard.RefreshInterval, log)

	// 4. Wallet session: approval happens in the browser extension, so
	// no in-process provider exists; addresses are adopted over HTTP.
	app.wallets = wallet.NewManager(nil, app.chain, app.api, cfg.Solana.Threshold, log)

	// 5. HTTP surface
	app.httpSrv = server.New(cfg.Server.Port, cfg.Dashboard.LeaderboardSize, app.views, app.agg, app.oracle, app.wallets, log)

	// 6. Periodic background tasks
	app.sched = newScheduler(log)

	return app, nil
}

// Start brings every component up and registers the periodic tasks.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	// Authenticate if credentials are configured; a login failure is
	// not fatal, the service keeps serving public read-only data.
	if a.cfg.Backend.Username != "" {
		if err := a.api.Login(runCtx, a.cfg.Backend.Username, a.cfg.Backend.Password); err != nil {
			a.log.Warn("Backend login failed, continuing unauthenticated", "error", err)
		}
	}

	if err := a.oracle.Refresh(runCtx); err != nil {
		a.log.Warn("Initial price fetch failed, serving default", "error", err)
	}

	a.views.Start(runCtx)

	if err := a.sched.register(runCtx, a); err != nil {
		cancel()
		return err
	}
	a.sched.start()

	go func() {
		if err := a.httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()
	a.log.Info("Server listening", "port", a.cfg.Server.Port)

	return nil
}

// Stop tears everything down: timers first so no task fires against a
// closing client, then the server and the outbound connections.
func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	a.sched.stop()

	var errs []error
	if err := a.httpSrv.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop http server: %w", err))
	}
	if err := a.api.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.chain.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
