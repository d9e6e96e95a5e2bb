package repository

import (
	"context"
	"sync"
	"time"
)

// RefreshToken is an opaque session credential carried in a cookie.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// RefreshTokenRepository stores live refresh tokens.
type RefreshTokenRepository interface {
	Save(ctx context.Context, token RefreshToken) error
	Get(ctx context.Context, token string) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

type refreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]RefreshToken
	now    Clock
}

// NewRefreshTokenRepository instantiates repository.
func NewRefreshTokenRepository(now Clock) RefreshTokenRepository {
	return &refreshTokenRepository{tokens: make(map[string]RefreshToken), now: now}
}

func (r *refreshTokenRepository) Save(_ context.Context, token RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = token
	return nil
}

// Get drops and reports expired tokens as missing.
func (r *refreshTokenRepository) Get(_ context.Context, token string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	if !r.now().Before(t.ExpiresAt) {
		delete(r.tokens, token)
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *refreshTokenRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *refreshTokenRepository) DeleteByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, key)
			removed++
		}
	}
	return removed, nil
}
