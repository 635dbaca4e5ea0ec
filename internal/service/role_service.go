package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/repository"
)

// RoleService resolves effective roles. The configured owner ID is always
// super-admin and is never persisted; everything else comes from the
// uploaders table, with a configured fallback list consulted only when the
// table is unreachable.
type RoleService struct {
	repo           repository.RoleRepository
	ownerID        string
	fallbackAdmins map[string]struct{}
}

// NewRoleService creates a new role service. fallbackAdminIDs are granted
// admin (not super-admin) only while the role store is failing; an empty
// list means strict owner-only degradation.
func NewRoleService(repo repository.RoleRepository, ownerID string, fallbackAdminIDs []string) *RoleService {
	fallback := make(map[string]struct{}, len(fallbackAdminIDs))
	for _, id := range fallbackAdminIDs {
		if id != "" {
			fallback[id] = struct{}{}
		}
	}
	return &RoleService{
		repo:           repo,
		ownerID:        ownerID,
		fallbackAdmins: fallback,
	}
}

// IsOwner reports whether the ID is the configured owner.
func (s *RoleService) IsOwner(discordID string) bool {
	return discordID != "" && discordID == s.ownerID
}

// Resolve returns the effective role flags for a user. It never fails: a
// role-store outage degrades to the fallback list, otherwise denies.
func (s *RoleService) Resolve(ctx context.Context, discordID string) domain.RoleFlags {
	if s.IsOwner(discordID) {
		return domain.RoleFlags{IsAdmin: true, IsSuperAdmin: true}
	}
	if discordID == "" {
		return domain.RoleFlags{}
	}

	role, err := s.repo.Get(ctx, discordID)
	if err != nil {
		slog.Warn("Role lookup failed, degrading to fallback list", "discord_id", discordID, "err", err)
		if _, ok := s.fallbackAdmins[discordID]; ok {
			return domain.RoleFlags{IsAdmin: true}
		}
		return domain.RoleFlags{}
	}

	return role.Flags()
}

// ResolveBatch resolves several IDs in one storage round trip. Every
// requested ID gets an entry; IDs without a role row get both flags false.
func (s *RoleService) ResolveBatch(ctx context.Context, discordIDs []string) map[string]domain.RoleFlags {
	result := make(map[string]domain.RoleFlags, len(discordIDs))

	var lookup []string
	for _, id := range discordIDs {
		if id == "" {
			continue
		}
		if s.IsOwner(id) {
			result[id] = domain.RoleFlags{IsAdmin: true, IsSuperAdmin: true}
			continue
		}
		result[id] = domain.RoleFlags{}
		lookup = append(lookup, id)
	}

	if len(lookup) == 0 {
		return result
	}

	roles, err := s.repo.GetBatch(ctx, lookup)
	if err != nil {
		slog.Warn("Batch role lookup failed, degrading to fallback list", "err", err)
		for _, id := range lookup {
			if _, ok := s.fallbackAdmins[id]; ok {
				result[id] = domain.RoleFlags{IsAdmin: true}
			}
		}
		return result
	}

	for id, role := range roles {
		result[id] = role.Flags()
	}
	return result
}

// SetAdmin grants or revokes the admin role. Only the owner may call it
// (the legacy endpoint is stricter than the super-admin toggle). Revoking
// admin never downgrades a super-admin row; writes targeting the owner
// succeed without effect.
func (s *RoleService) SetAdmin(ctx context.Context, actorID, discordID string, grant bool) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if !s.IsOwner(actorID) {
		return ErrForbidden
	}
	if s.IsOwner(discordID) {
		return nil
	}

	if !grant {
		if err := s.repo.DeleteIfRole(ctx, discordID, domain.RoleAdmin); err != nil {
			return fmt.Errorf("revoke admin: %w", err)
		}
		return nil
	}

	current, err := s.repo.Get(ctx, discordID)
	if err != nil {
		return fmt.Errorf("check current role: %w", err)
	}
	if current == domain.RoleSuperAdmin {
		// Granting admin must not touch the super-admin flag.
		return nil
	}

	if err := s.repo.Upsert(ctx, discordID, domain.RoleAdmin); err != nil {
		return fmt.Errorf("grant admin: %w", err)
	}
	return nil
}

// SetSuperAdmin grants or revokes the super-admin role. Callers must be the
// owner or super-admin themselves. Revoking downgrades to admin, never to
// no-access; writes targeting the owner succeed without effect.
func (s *RoleService) SetSuperAdmin(ctx context.Context, actorID, discordID string, grant bool) (domain.Role, error) {
	if actorID == "" {
		return domain.RoleNone, ErrUnauthenticated
	}
	if actor := s.Resolve(ctx, actorID); !actor.IsSuperAdmin {
		return domain.RoleNone, ErrForbidden
	}
	if s.IsOwner(discordID) {
		return domain.RoleSuperAdmin, nil
	}

	role := domain.RoleSuperAdmin
	if !grant {
		role = domain.RoleAdmin
	}
	if err := s.repo.Upsert(ctx, discordID, role); err != nil {
		return domain.RoleNone, fmt.Errorf("set super admin: %w", err)
	}
	return role, nil
}
