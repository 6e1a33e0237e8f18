package domain

import "time"

type DrawType string

const (
	DrawHourly DrawType = "hourly"
	DrawDaily  DrawType = "daily"
)

// DrawStatus is the lifecycle state of a scheduled draw as reported
// by the lottery backend.
type DrawStatus string

const (
	DrawPending    DrawStatus = "pending"
	DrawProcessing DrawStatus = "processing"
	DrawCompleted  DrawStatus = "completed"
	DrawCancelled  DrawStatus = "cancelled"
)

type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
)

// DrawResult is a read-only historical record of a completed draw.
type DrawResult struct {
	DrawID       int64
	DrawType     DrawType
	Winner       string
	AmountWon    float64
	TicketsHeld  int
	PayoutStatus PayoutStatus
	PayoutSig    string
	ExecutedAt   time.Time
	RecordedAt   time.Time
}

// DrawResultPage is one page of draw history.
type DrawResultPage struct {
	Total   int
	Page    int
	HasNext bool
	Results []DrawResult
}
