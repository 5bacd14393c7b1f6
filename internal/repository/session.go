package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ucu-wifi/guest-portal-go/internal/database"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error)
	// FindValid returns the unexpired session for adminID holding tokenHash, or nil.
	FindValid(ctx context.Context, adminID, tokenHash string) (*model.Session, error)
	DeleteByAdminID(ctx context.Context, adminID string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) SessionRepository
}

type sessionRepo struct {
	db database.DBTX
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) WithTx(tx *sqlx.Tx) SessionRepository {
	return &sessionRepo{db: tx}
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO sessions (admin_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.AdminID, params.TokenHash, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindValid(ctx context.Context, adminID, tokenHash string) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM sessions
		WHERE admin_id = $1 AND token_hash = $2 AND expires_at > NOW()
	`, adminID, tokenHash)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) DeleteByAdminID(ctx context.Context, adminID string) (int64, error) {
	return affectedRows(r.db.ExecContext(ctx, `DELETE FROM sessions WHERE admin_id = $1`, adminID))
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return affectedRows(r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`))
}
