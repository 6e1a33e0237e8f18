package wallet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/manuphil/balldash/internal/core/domain"
	"github.com/manuphil/balldash/internal/infra/backend"
)

// InfoSource reads the backend's cached view of a wallet.
type InfoSource interface {
	WalletInfo(ctx context.Context, addr string) (*backend.WalletInfo, error)
}

// Manager owns the wallet session: created on connect, cleared on
// disconnect, refreshed on demand. The chain balance is the source of
// truth; the backend balance is a cache and the two may transiently
// disagree.
type Manager struct {
	provider  Provider
	chain     BalanceSource
	info      InfoSource
	threshold float64
	log       *slog.Logger

	mu      sync.RWMutex
	session domain.WalletSession
}

// NewManager creates a session manager. threshold is the eligibility
// minimum in decimal-normalized token units.
func NewManager(provider Provider, chain BalanceSource, info InfoSource, threshold float64, log *slog.Logger) *Manager {
	return &Manager{
		provider:  provider,
		chain:     chain,
		info:      info,
		threshold: threshold,
		log:       log,
	}
}

// Session returns the current session snapshot.
func (m *Manager) Session() domain.WalletSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Connect attaches a wallet and populates balances. ErrWalletUnavailable
// and ErrUserRejected pass through untouched for the caller to surface.
func (m *Manager) Connect(ctx context.Context) (domain.WalletSession, error) {
	if m.provider == nil {
		return domain.WalletSession{}, ErrWalletUnavailable
	}

	addr, err := m.provider.Connect(ctx)
	if err != nil {
		return domain.WalletSession{}, err
	}

	return m.populate(ctx, addr), nil
}

// ConnectAddress adopts an address that was connected outside this
// process (the browser extension holds the actual approval flow) and
// populates balances for it.
func (m *Manager) ConnectAddress(ctx context.Context, addr string) domain.WalletSession {
	return m.populate(ctx, addr)
}

// Resume re-adopts a provider connection that survived a restart.
// Returns false when the provider has no connected wallet.
func (m *Manager) Resume(ctx context.Context) (domain.WalletSession, bool) {
	if m.provider == nil {
		return domain.WalletSession{}, false
	}
	addr, connected := m.provider.PublicKey()
	if !connected || addr == "" {
		return domain.WalletSession{}, false
	}
	return m.populate(ctx, addr), true
}

// Refresh re-fetches balances for the connected wallet.
func (m *Manager) Refresh(ctx context.Context) (domain.WalletSession, bool) {
	m.mu.RLock()
	addr := m.session.Address
	m.mu.RUnlock()
	if addr == "" {
		return domain.WalletSession{}, false
	}
	return m.populate(ctx, addr), true
}

// Disconnect detaches the wallet and zeroes balances and eligibility so
// no stale values linger.
func (m *Manager) Disconnect(ctx context.Context) {
	if m.provider != nil {
		if err := m.provider.Disconnect(ctx); err != nil {
			m.log.Warn("Wallet disconnect failed", "error", err)
		}
	}

	m.mu.Lock()
	m.session = domain.WalletSession{}
	m.mu.Unlock()
}

// Lookup fetches balances and eligibility for an arbitrary address
// without touching the attached session.
func (m *Manager) Lookup(ctx context.Context, addr string) domain.WalletSession {
	return m.fetch(ctx, addr)
}

func (m *Manager) populate(ctx context.Context, addr string) domain.WalletSession {
	session := m.fetch(ctx, addr)
	m.mu.Lock()
	m.session = session
	m.mu.Unlock()
	return session
}

// fetch reads the chain balance and backend info concurrently. The two
// sources are independent; either may fail without discarding the
// other.
func (m *Manager) fetch(ctx context.Context, addr string) domain.WalletSession {
	var (
		wg           sync.WaitGroup
		chainBalance float64
		chainErr     error
		info         *backend.WalletInfo
		infoErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		chainBalance, chainErr = m.chain.TokenBalance(ctx, addr)
	}()
	go func() {
		defer wg.Done()
		info, infoErr = m.info.WalletInfo(ctx, addr)
	}()
	wg.Wait()

	if chainErr != nil {
		m.log.Warn("Chain balance lookup failed", "wallet", addr, "error", chainErr)
		chainBalance = 0
	}

	session := domain.WalletSession{
		Address:      addr,
		ChainBalance: chainBalance,
		ConnectedAt:  time.Now(),
	}

	if infoErr != nil {
		m.log.Warn("Backend wallet info fetch failed", "wallet", addr, "error", infoErr)
		// Fall back to the chain balance for eligibility.
		session.Eligible = chainErr == nil && chainBalance >= m.threshold
	} else {
		session.BackendBalance = backend.Amount(info.CurrentBalance)
		session.Tickets = info.TicketsCount
		session.Eligible = info.IsEligible
	}

	return session
}
