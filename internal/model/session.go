package model

import (
	"time"
)

// Session is a server-side record backing one issued bearer token.
// Only the SHA-256 of the token is stored.
type Session struct {
	ID        string    `db:"id" json:"id"`
	AdminID   string    `db:"admin_id" json:"admin_id"`
	TokenHash string    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateSessionParams struct {
	AdminID   string
	TokenHash string
	ExpiresAt time.Time
}
