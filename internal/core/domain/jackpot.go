package domain

import "time"

// JackpotSnapshot is the reconciled view of one jackpot pool.
// NextDraw is either the backend's pending scheduled draw or a locally
// computed target when the backend lists none.
type JackpotSnapshot struct {
	DrawType DrawType
	Amount   float64
	NextDraw time.Time
}
