package domain

import "time"

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PhotoURL      string    `json:"photo_url"`
	Mobile        string    `json:"mobile"`
	PasswordHash  string    `json:"-"`
	PINHash       *string   `json:"-"`
	ReferredBy    *string   `json:"referred_by,omitempty"`
	RewardClaimed bool      `json:"reward_claimed"`
	IsGhost       bool      `json:"is_ghost"`
	FCMToken      string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasPIN reports whether the user has completed PIN setup. Ghost users
// never have a PIN and cannot authorize outgoing money movement.
func (u *User) HasPIN() bool {
	return u.PINHash != nil && *u.PINHash != ""
}

// GhostID derives the deterministic id for an unregistered recipient
// created from a mobile number.
func GhostID(mobile string) string {
	return "ghost_" + mobile
}

// GhostEmail derives the placeholder email for a ghost recipient.
func GhostEmail(mobile string) string {
	return mobile + "@zapghost.com"
}
