package domain

import "time"

// User is a row in the users table, recorded when a signed-in identity is
// first seen. Role information lives in the uploaders table, not here.
type User struct {
	DiscordID   string    `json:"discord_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	LastLoginAt time.Time `json:"last_login_at"`
}
