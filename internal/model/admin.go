package model

import (
	"time"
)

type Admin struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AdminSummary is the public view of an admin, safe to return to clients.
type AdminSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (a *Admin) Summary() AdminSummary {
	return AdminSummary{ID: a.ID, Email: a.Email}
}

type CreateAdminParams struct {
	Email        string
	PasswordHash string
}
