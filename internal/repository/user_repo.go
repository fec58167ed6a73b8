package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-interview-client/internal/model"
)

// UserRecord is a stored account. Google-only accounts have no password hash.
type UserRecord struct {
	model.User
	PasswordHash string
	CreatedAt    time.Time
}

type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]UserRecord
	byEmail map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    map[int64]UserRecord{},
		byEmail: map[string]int64{},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return UserRecord{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return UserRecord{}, model.ErrUserNotFound
	}
	return r.byID[id], nil
}

// Create assigns the next id and fails when the email is taken.
func (r *UserRepository) Create(_ context.Context, u UserRecord) (UserRecord, error) {
	key := normalizeEmail(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[key]; exists {
		return UserRecord{}, model.ErrUserAlreadyExists
	}

	r.nextID++
	u.ID = r.nextID
	u.Email = key
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.byID[u.ID] = u
	r.byEmail[key] = u.ID
	return u, nil
}
