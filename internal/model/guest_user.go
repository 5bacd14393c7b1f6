package model

import (
	"time"
)

type GuestUser struct {
	ID           string      `db:"id" json:"id"`
	Username     string      `db:"username" json:"username"`
	PasswordHash string      `db:"password_hash" json:"-"`
	FullName     string      `db:"full_name" json:"full_name"`
	Email        string      `db:"email" json:"email"`
	PhoneNumber  string      `db:"phone_number" json:"phone_number"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	ExpiresAt    time.Time   `db:"expires_at" json:"expires_at"`
	IsActive     bool        `db:"is_active" json:"is_active"`
	CreatedBy    string      `db:"created_by" json:"created_by"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
	Status       GuestStatus `db:"-" json:"status"`
}

// WithStatus returns a copy of u with Status derived at now.
func (u GuestUser) WithStatus(now time.Time) GuestUser {
	u.Status = DeriveStatus(&u, now)
	return u
}

type CreateGuestUserParams struct {
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	PhoneNumber  string
	ExpiresAt    time.Time
	CreatedBy    string
}

// UpdateGuestUserParams holds a partial update; nil fields are left unchanged.
type UpdateGuestUserParams struct {
	IsActive  *bool
	ExpiresAt *time.Time
}

func (p UpdateGuestUserParams) IsEmpty() bool {
	return p.IsActive == nil && p.ExpiresAt == nil
}
