package backend

import "strconv"

// Page is the uniform paginated-list shape used by every collection
// endpoint of the lottery API.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// TokenPair is the access/refresh token pair returned by the auth endpoints.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenHolding is one wallet's balance and ticket record.
type TokenHolding struct {
	ID            int64  `json:"id"`
	WalletAddress string `json:"wallet_address"`
	Balance       string `json:"balance"`
	TicketsCount  int    `json:"tickets_count"`
	IsEligible    bool   `json:"is_eligible"`
	LastUpdated   string `json:"last_updated"`
	TotalWinnings string `json:"total_winnings,omitempty"`
}

// Lottery is one scheduled or executed draw.
type Lottery struct {
	ID                int64   `json:"id"`
	LotteryType       string  `json:"lottery_type"` // hourly, daily
	DrawID            int64   `json:"draw_id"`
	ScheduledTime     string  `json:"scheduled_time"`
	Status            string  `json:"status"` // pending, processing, completed, cancelled
	JackpotAmountSol  string  `json:"jackpot_amount_sol"`
	TotalParticipants int     `json:"total_participants"`
	TotalTickets      int     `json:"total_tickets"`
	ExecutedTime      *string `json:"executed_time"`
	WinnerWallet      *string `json:"winner_wallet"`
	TxSignature       *string `json:"transaction_signature"`
}

// Winner is one historical payout record.
type Winner struct {
	ID               int64   `json:"id"`
	LotteryID        int64   `json:"lottery_id"`
	WalletAddress    string  `json:"wallet_address"`
	WinningAmountSol string  `json:"winning_amount_sol"`
	TicketsHeld      int     `json:"tickets_held"`
	PayoutStatus     string  `json:"payout_status"` // pending, processing, completed, failed
	PayoutTime       *string `json:"payout_time"`
	PayoutTxSig      *string `json:"payout_transaction_signature"`
	CreatedAt        string  `json:"created_at"`
	LotteryType      string  `json:"lottery_type,omitempty"`
	LotteryDate      string  `json:"lottery_date,omitempty"`
}

// JackpotPool is the backend's cached view of one jackpot pool.
type JackpotPool struct {
	ID               int64  `json:"id"`
	LotteryType      string `json:"lottery_type"`
	CurrentAmountSol string `json:"current_amount_sol"`
	LastUpdated      string `json:"last_updated"`
}

// Stats is the global lottery statistics payload.
type Stats struct {
	TotalDraws        int    `json:"total_draws"`
	TotalParticipants int    `json:"total_participants"`
	TotalWinningsSol  string `json:"total_winnings_sol"`
	AverageJackpot    string `json:"average_jackpot"`
	ActivePlayers     int    `json:"active_players"`
}

// DashboardStats is the stats sub-object of the dashboard payload.
type DashboardStats struct {
	TotalParticipants int    `json:"total_participants"`
	TotalDraws        int    `json:"total_draws"`
	TotalWinnings     string `json:"total_winnings"`
	ActiveTickets     int    `json:"active_tickets"`
}

// Dashboard is the backend's aggregate summary payload.
type Dashboard struct {
	CurrentJackpots []JackpotPool  `json:"current_jackpots"`
	RecentWinners   []Winner       `json:"recent_winners"`
	CurrentLottery  *Lottery       `json:"current_lottery"`
	Stats           DashboardStats `json:"stats"`
}

// LotteryState is the on-chain program state as mirrored by the backend.
type LotteryState struct {
	Admin             string `json:"admin"`
	TokenMint         string `json:"ball_token_mint"`
	HourlyJackpotSol  string `json:"hourly_jackpot_sol"`
	DailyJackpotSol   string `json:"daily_jackpot_sol"`
	TotalParticipants int    `json:"total_participants"`
	TotalTickets      int    `json:"total_tickets"`
	IsPaused          bool   `json:"is_paused"`
	EmergencyStop     bool   `json:"emergency_stop"`
	LastUpdated       string `json:"last_updated"`
}

// WalletInfo is the per-wallet detail payload.
type WalletInfo struct {
	WalletAddress  string   `json:"wallet_address"`
	CurrentBalance string   `json:"current_balance"`
	TicketsCount   int      `json:"tickets_count"`
	IsEligible     bool     `json:"is_eligible"`
	TotalWinnings  string   `json:"total_winnings"`
	WinHistory     []Winner `json:"win_history"`
}

// Transaction is one recorded on-chain token movement.
type Transaction struct {
	ID              int64  `json:"id"`
	WalletAddress   string `json:"wallet_address"`
	TransactionType string `json:"transaction_type"` // buy, sell, lottery_draw, payout
	SolAmount       string `json:"sol_amount"`
	BallAmount      string `json:"ball_amount"`
	TxSignature     string `json:"transaction_signature"`
	BlockTime       string `json:"block_time"`
	Slot            int64  `json:"slot"`
}

// Amount parses a backend decimal string, treating malformed or empty
// values as zero. The backend serializes all token and SOL amounts as
// strings to avoid float truncation in transit.
func Amount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
