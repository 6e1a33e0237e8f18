// Package wallet wraps the wallet provider's connect/disconnect calls
// and normalizes chain and backend balance lookups into one session.
package wallet

import (
	"context"
	"errors"
)

// ErrWalletUnavailable is returned when no compatible wallet provider
// is detected. Callers must present a visible error rather than retry.
var ErrWalletUnavailable = errors.New("wallet: no compatible provider available")

// ErrUserRejected is returned when the provider's connect call is
// declined by the user.
var ErrUserRejected = errors.New("wallet: connection rejected by user")

// Provider is the injected wallet surface: connect, disconnect and the
// currently exposed public key.
type Provider interface {
	// Connect requests a connection and returns the wallet address.
	// Fails with ErrWalletUnavailable or ErrUserRejected.
	Connect(ctx context.Context) (string, error)

	// Disconnect releases the connection.
	Disconnect(ctx context.Context) error

	// PublicKey returns the connected address, if any.
	PublicKey() (addr string, connected bool)
}

// BalanceSource reads the on-chain token balance for an owner, in
// decimal-normalized units.
type BalanceSource interface {
	TokenBalance(ctx context.Context, owner string) (float64, error)
}
