package domain

import "time"

// WalletSession is the transient state of a connected wallet.
// ChainBalance is read from the chain RPC and is the source of truth;
// BackendBalance is the backend's cached view. The two may transiently
// disagree between snapshot runs.
type WalletSession struct {
	Address        string
	ChainBalance   float64
	BackendBalance float64
	Tickets        int
	Eligible       bool
	ConnectedAt    time.Time
}

// Connected reports whether a wallet is currently attached to the session.
func (s WalletSession) Connected() bool {
	return s.Address != ""
}
