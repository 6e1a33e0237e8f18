// Package server exposes the aggregated view models over HTTP/JSON.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manuphil/balldash/internal/dashboard"
	"github.com/manuphil/balldash/internal/infra/price"
	"github.com/manuphil/balldash/internal/wallet"
)

// Server serves the dashboard API.
type Server struct {
	views     *dashboard.Service
	agg       *dashboard.Aggregator
	oracle    *price.Oracle
	wallets   *wallet.Manager
	log       *slog.Logger
	server    *http.Server
	boardSize int // default leaderboard length
}

// New creates the HTTP server on the given port. boardSize is the
// leaderboard length served when the request names no limit.
func New(port, boardSize int, views *dashboard.Service, agg *dashboard.Aggregator, oracle *price.Oracle, wallets *wallet.Manager, log *slog.Logger) *Server {
	s := &Server{
		views:     views,
		agg:       agg,
		oracle:    oracle,
		wallets:   wallets,
		log:       log,
		boardSize: boardSize,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/leaderboard", s.handleLeaderboard)
		api.GET("/results", s.handleResults)
		api.GET("/price", s.handlePrice)
		api.GET("/wallet/:address", s.handleWalletLookup)
		api.GET("/session", s.handleSession)
		api.POST("/session/connect", s.handleSessionConnect)
		api.POST("/session/disconnect", s.handleSessionDisconnect)
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
