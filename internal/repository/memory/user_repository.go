package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// UserRepository is an in-memory implementation of repository.UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Upsert(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.LastLoginAt = time.Now()
	if existing, ok := r.users[user.DiscordID]; ok && user.Email == "" {
		user.Email = existing.Email
	}
	r.users[user.DiscordID] = user
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].LastLoginAt.After(users[j].LastLoginAt)
	})
	return users, nil
}
