// Package session holds the authenticated identity of the running client.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/observability"
	"github.com/spec-kit/helpdesk-client/internal/persistence"
)

// TokenHolder owns the access token shared by the HTTP client and the session store.
// The persisted copy lives under persistence.KeyAccessToken.
type TokenHolder struct {
	mu     sync.RWMutex
	token  string
	kv     persistence.KeyValueStore
	logger *zap.Logger
}

// NewTokenHolder seeds the holder from kv.
func NewTokenHolder(ctx context.Context, kv persistence.KeyValueStore, logger *zap.Logger) (*TokenHolder, error) {
	h := &TokenHolder{kv: kv, logger: observability.Named(logger, "session.token")}
	if kv == nil {
		return h, nil
	}
	token, ok, err := kv.Get(ctx, persistence.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("load access token: %w", err)
	}
	if ok {
		h.token = token
	}
	return h, nil
}

// AccessToken returns the current token or "".
func (h *TokenHolder) AccessToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Set replaces the token in memory and persists it.
func (h *TokenHolder) Set(ctx context.Context, token string) error {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()

	if h.kv == nil {
		return nil
	}
	if err := h.kv.Set(ctx, persistence.KeyAccessToken, token); err != nil {
		h.logger.Warn("persist access token failed", zap.Error(err))
		return err
	}
	return nil
}

// Clear forgets the token in memory and erases the persisted copy.
func (h *TokenHolder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.token = ""
	h.mu.Unlock()

	if h.kv == nil {
		return nil
	}
	if err := h.kv.Delete(ctx, persistence.KeyAccessToken); err != nil {
		h.logger.Warn("erase access token failed", zap.Error(err))
		return err
	}
	return nil
}

// Expiry reads the exp claim of a JWT access token without verifying its signature.
// ok is false for empty, opaque or exp-less tokens.
func Expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
