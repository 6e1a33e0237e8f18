package domain

import "time"

// LeaderboardMetric selects which value a leaderboard is ranked by.
type LeaderboardMetric string

const (
	MetricBalance  LeaderboardMetric = "balance"
	MetricTickets  LeaderboardMetric = "tickets"
	MetricWinnings LeaderboardMetric = "winnings"
)

// Valid reports whether m is a known metric.
func (m LeaderboardMetric) Valid() bool {
	switch m {
	case MetricBalance, MetricTickets, MetricWinnings:
		return true
	}
	return false
}

// LeaderboardEntry is one ranked row. Rank is assigned client-side from
// sort position, starting at 1; it is recomputed on every fetch and
// never persisted.
type LeaderboardEntry struct {
	Rank        int
	Wallet      string
	Balance     float64
	Tickets     int
	Winnings    float64
	Eligible    bool
	LastUpdated time.Time
}
