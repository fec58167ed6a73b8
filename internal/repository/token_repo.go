package repository

import (
	"context"
	"sync"
	"time"

	"go-interview-client/internal/model"
)

type refreshEntry struct {
	userID    int64
	expiresAt time.Time
}

// TokenRepository tracks live refresh tokens by their jti.
type TokenRepository struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	now    func() time.Time
}

func NewTokenRepository(now func() time.Time) *TokenRepository {
	if now == nil {
		now = time.Now
	}
	return &TokenRepository{tokens: map[string]refreshEntry{}, now: now}
}

func (r *TokenRepository) Store(_ context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[tokenID] = refreshEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

// Consume validates and revokes in one step, so a refresh token is good for
// exactly one rotation.
func (r *TokenRepository) Consume(_ context.Context, tokenID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.tokens[tokenID]
	if !ok || !entry.expiresAt.After(r.now()) {
		delete(r.tokens, tokenID)
		return 0, model.ErrNotAuthenticated
	}
	delete(r.tokens, tokenID)
	return entry.userID, nil
}

func (r *TokenRepository) Revoke(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, tokenID)
	return nil
}

func (r *TokenRepository) RevokeAllForUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.tokens {
		if entry.userID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *TokenRepository) CleanExpired(_ context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, entry := range r.tokens {
		if !entry.expiresAt.After(now) {
			delete(r.tokens, id)
			removed++
		}
	}
	return removed
}
