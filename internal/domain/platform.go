package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PlatformTwitter   = "twitter"
	PlatformX         = "x"
	PlatformLinkedIn  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformDiscord   = "discord"
	PlatformGhost     = "ghost"
	PlatformTelegram  = "telegram"
)

// Platform is one external account linked to a user's wallet identity.
type Platform struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	WalletAddress    *string    `json:"wallet_address,omitempty"`
	PlatformName     string     `json:"platform_name"`
	PlatformUsername *string    `json:"platform_username,omitempty"`
	IsConnected      bool       `json:"is_connected"`
	LastSyncAt       *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Username returns the platform username, or "" when none was linked.
func (p Platform) Username() string {
	if p.PlatformUsername == nil {
		return ""
	}
	return *p.PlatformUsername
}

// NormalizePlatformName trims and lower-cases a platform name; "x" maps to "twitter".
func NormalizePlatformName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == PlatformX {
		return PlatformTwitter
	}
	return n
}

// PlatformFilter selects platforms owned by a user or a wallet.
type PlatformFilter struct {
	UserID        *uuid.UUID
	WalletAddress string
	// ConnectedOnly limits the result to platforms with is_connected = true.
	ConnectedOnly bool
}
