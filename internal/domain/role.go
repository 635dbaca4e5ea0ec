package domain

import "time"

// Role is the elevated role stored for an uploader. Absence of a row means
// the user has no elevated role; the owner never has a row at all.
type Role string

const (
	RoleNone       Role = ""
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// RoleFlags is the resolved view of a user's role as handlers consume it.
type RoleFlags struct {
	IsAdmin      bool `json:"isAdmin"`
	IsSuperAdmin bool `json:"isSuperAdmin"`
}

// Flags expands a stored role into its effective flags. Super-admin implies
// admin.
func (r Role) Flags() RoleFlags {
	switch r {
	case RoleSuperAdmin:
		return RoleFlags{IsAdmin: true, IsSuperAdmin: true}
	case RoleAdmin:
		return RoleFlags{IsAdmin: true}
	default:
		return RoleFlags{}
	}
}

// UploaderRole is a row in the uploaders table.
type UploaderRole struct {
	DiscordID string    `json:"discord_id"`
	Role      Role      `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}
