package backend

import (
	"context"
	"fmt"

	"github.com/manuphil/balldash/internal/metrics"
)

// Login exchanges credentials for an access/refresh token pair and
// caches both.
func (c *Client) Login(ctx context.Context, username, password string) error {
	pair, err := post[TokenPair](ctx, c, "auth", "/api/auth/token/", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return c.setTokens(ctx, pair.Access, pair.Refresh)
}

// Refresh exchanges the cached refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.RLock()
	refresh := c.refresh
	c.mu.RUnlock()
	if refresh == "" {
		return fmt.Errorf("no refresh token available")
	}

	pair, err := post[TokenPair](ctx, c, "auth", "/api/auth/token/refresh/", map[string]string{
		"refresh": refresh,
	})
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	return c.setTokens(ctx, pair.Access, pair.Refresh)
}

// Verify checks whether the cached access token is still accepted.
// An absent token or a backend rejection both report false without error.
func (c *Client) Verify(ctx context.Context) bool {
	token := c.accessToken()
	if token == "" {
		return false
	}
	_, err := post[struct{}](ctx, c, "auth", "/api/auth/token/verify/", map[string]string{
		"token": token,
	})
	return err == nil
}

// Logout drops the cached token pair and clears the persisted copy.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.access = ""
	c.refresh = ""
	c.mu.Unlock()
	if c.store != nil {
		return c.store.Clear(ctx)
	}
	return nil
}

// EnsureFresh runs one verify-then-refresh sequence. Refresh failures
// are logged and swallowed: subsequent requests simply proceed
// unauthenticated and the backend rejects them with an auth error,
// which callers must treat as "not logged in".
func (c *Client) EnsureFresh(ctx context.Context) {
	// Serialize with any concurrent refresh.
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if c.Verify(ctx) {
		return
	}

	c.mu.RLock()
	hasRefresh := c.refresh != ""
	c.mu.RUnlock()
	if !hasRefresh {
		return
	}

	if err := c.Refresh(ctx); err != nil {
		metrics.TokenRefreshes.WithLabelValues("failed").Inc()
		c.log.Warn("Silent token refresh failed", "error", err)
		return
	}
	metrics.TokenRefreshes.WithLabelValues("ok").Inc()
	c.log.Debug("Access token refreshed")
}

func (c *Client) setTokens(ctx context.Context, access, refresh string) error {
	c.mu.Lock()
	c.access = access
	c.refresh = refresh
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(ctx, access, refresh); err != nil {
			c.log.Warn("Failed to persist tokens", "error", err)
		}
	}
	return nil
}
