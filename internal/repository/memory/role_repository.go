package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// RoleRepository is an in-memory implementation of repository.RoleRepository
type RoleRepository struct {
	mu    sync.RWMutex
	roles map[string]domain.UploaderRole

	// FailWith, when set, makes every call return this error. Tests use it
	// to simulate a role-store outage.
	FailWith error
}

// NewRoleRepository creates a new in-memory role repository
func NewRoleRepository() *RoleRepository {
	return &RoleRepository{roles: make(map[string]domain.UploaderRole)}
}

func (r *RoleRepository) Get(ctx context.Context, discordID string) (domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FailWith != nil {
		return domain.RoleNone, r.FailWith
	}

	row, ok := r.roles[discordID]
	if !ok {
		return domain.RoleNone, nil
	}
	return row.Role, nil
}

func (r *RoleRepository) GetBatch(ctx context.Context, discordIDs []string) (map[string]domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FailWith != nil {
		return nil, r.FailWith
	}

	roles := make(map[string]domain.Role)
	for _, id := range discordIDs {
		if row, ok := r.roles[id]; ok {
			roles[id] = row.Role
		}
	}
	return roles, nil
}

func (r *RoleRepository) Upsert(ctx context.Context, discordID string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	r.roles[discordID] = domain.UploaderRole{
		DiscordID: discordID,
		Role:      role,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (r *RoleRepository) DeleteIfRole(ctx context.Context, discordID string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	if row, ok := r.roles[discordID]; ok && row.Role == role {
		delete(r.roles, discordID)
	}
	return nil
}
