package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manuphil/balldash/internal/core/domain"
	"github.com/manuphil/balldash/internal/dashboard"
)

// dashboardResponse is the rendered dashboard payload: the reconciled
// view plus live countdowns and the USD conversion of each jackpot.
type dashboardResponse struct {
	Hourly            jackpotResponse     `json:"hourly"`
	Daily             jackpotResponse     `json:"daily"`
	TotalParticipants int                 `json:"total_participants"`
	TotalTickets      int                 `json:"total_tickets"`
	Health            domain.Health       `json:"health"`
	Partial           bool                `json:"partial"`
	SpotPriceUSD      float64             `json:"spot_price_usd"`
	LastUpdated       time.Time           `json:"last_updated"`
	Countdown         dashboard.Remaining `json:"countdown"`
}

type jackpotResponse struct {
	Amount    float64   `json:"amount"`
	AmountUSD float64   `json:"amount_usd"`
	NextDraw  time.Time `json:"next_draw"`
}

func (s *Server) handleDashboard(c *gin.Context) {
	view, ok := s.views.Latest()
	if !ok {
		// Nothing aggregated yet; try once synchronously.
		var err error
		view, err = s.views.Refresh(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard data unavailable"})
			return
		}
	}

	spot := s.oracle.Spot()
	c.JSON(http.StatusOK, dashboardResponse{
		Hourly: jackpotResponse{
			Amount:    view.Hourly.Amount,
			AmountUSD: view.Hourly.Amount * spot,
			NextDraw:  view.Hourly.NextDraw,
		},
		Daily: jackpotResponse{
			Amount:    view.Daily.Amount,
			AmountUSD: view.Daily.Amount * spot,
			NextDraw:  view.Daily.NextDraw,
		},
		TotalParticipants: view.TotalParticipants,
		TotalTickets:      view.TotalTickets,
		Health:            view.Health,
		Partial:           view.Partial,
		SpotPriceUSD:      spot,
		LastUpdated:       view.LastUpdated,
		Countdown:         s.views.Hourly().Remaining(),
	})
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	metric := domain.LeaderboardMetric(c.DefaultQuery("type", string(domain.MetricBalance)))
	if !metric.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown leaderboard type"})
		return
	}
	limit := intQuery(c, "limit", s.boardSize)

	entries, err := s.agg.Leaderboard(c.Request.Context(), metric, limit)
	if err != nil {
		s.log.Warn("Leaderboard fetch failed", "metric", metric, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "leaderboard unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"type":    metric,
		"count":   len(entries),
		"results": entries,
	})
}

func (s *Server) handleResults(c *gin.Context) {
	drawType := c.Query("type")
	if drawType != "" && drawType != string(domain.DrawHourly) && drawType != string(domain.DrawDaily) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown draw type"})
		return
	}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 10)

	results, err := s.agg.Results(c.Request.Context(), drawType, page, pageSize)
	if err != nil {
		s.log.Warn("Results fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "draw results unavailable"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (s *Server) handlePrice(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"usd":          s.oracle.Spot(),
		"last_fetched": s.oracle.LastFetched(),
	})
}

func (s *Server) handleWalletLookup(c *gin.Context) {
	addr := c.Param("address")
	session := s.wallets.Lookup(c.Request.Context(), addr)
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (s *Server) handleSession(c *gin.Context) {
	session := s.wallets.Session()
	if !session.Connected() {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (s *Server) handleSessionConnect(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	session := s.wallets.ConnectAddress(c.Request.Context(), req.Address)
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (s *Server) handleSessionDisconnect(c *gin.Context) {
	s.wallets.Disconnect(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"connected": false})
}

func (s *Server) handleHealth(c *gin.Context) {
	status := domain.HealthUnknown
	if view, ok := s.views.Latest(); ok {
		status = view.Health
	}
	// Degraded and unknown upstream health still mean this service is
	// serving; only a hard fault would be non-2xx.
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func sessionResponse(session domain.WalletSession) gin.H {
	return gin.H{
		"connected":       true,
		"address":         session.Address,
		"chain_balance":   session.ChainBalance,
		"backend_balance": session.BackendBalance,
		"tickets":         session.Tickets,
		"eligible":        session.Eligible,
	}
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || v < 1 {
		return def
	}
	return v
}
