package model

import "time"

type GuestStatus string

const (
	GuestStatusActive   GuestStatus = "active"
	GuestStatusInactive GuestStatus = "inactive"
	GuestStatusExpired  GuestStatus = "expired"
)

func (s GuestStatus) Valid() bool {
	switch s {
	case GuestStatusActive, GuestStatusInactive, GuestStatusExpired:
		return true
	}
	return false
}

// DeriveStatus computes the display status of a guest account. Expiry takes
// precedence over the active flag; an account expires at exactly expires_at.
func DeriveStatus(u *GuestUser, now time.Time) GuestStatus {
	if !now.Before(u.ExpiresAt) {
		return GuestStatusExpired
	}
	if u.IsActive {
		return GuestStatusActive
	}
	return GuestStatusInactive
}
