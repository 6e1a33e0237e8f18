package domain

import "time"

// Health is the tri-state system health of the lottery program.
// Unknown means the chain-state query was unavailable: the system must
// not claim healthy without on-chain confirmation.
type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthDegraded Health = "degraded"
	HealthUnknown  Health = "unknown"
)

// DashboardView is the aggregate display object derived from the
// backend and chain-state queries. Partial is set when some concurrent
// branches of the aggregation failed but usable data remains.
type DashboardView struct {
	Hourly            JackpotSnapshot
	Daily             JackpotSnapshot
	TotalParticipants int
	TotalTickets      int
	Health            Health
	Partial           bool
	LastUpdated       time.Time
}
