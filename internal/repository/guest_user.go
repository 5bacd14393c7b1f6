package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ucu-wifi/guest-portal-go/internal/database"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
)

// GuestUserRepository scopes every read and write of an existing account to
// its owning admin, so another admin's ids behave as missing rows.
type GuestUserRepository interface {
	Create(ctx context.Context, params model.CreateGuestUserParams) (*model.GuestUser, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.GuestUser, error)
	FindByIDForOwner(ctx context.Context, ownerID, id string) (*model.GuestUser, error)
	Update(ctx context.Context, ownerID, id string, params model.UpdateGuestUserParams) (*model.GuestUser, error)
	// ToggleActive flips is_active and returns the new value, or nil if no row matched.
	ToggleActive(ctx context.Context, ownerID, id string) (*bool, error)
	DeleteForOwner(ctx context.Context, ownerID, id string) (bool, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) GuestUserRepository
}

type guestUserRepo struct {
	db database.DBTX
}

func NewGuestUserRepository(db *sqlx.DB) GuestUserRepository {
	return &guestUserRepo{db: db}
}

func (r *guestUserRepo) WithTx(tx *sqlx.Tx) GuestUserRepository {
	return &guestUserRepo{db: tx}
}

func (r *guestUserRepo) Create(ctx context.Context, params model.CreateGuestUserParams) (*model.GuestUser, error) {
	var user model.GuestUser
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO guest_users (username, password_hash, full_name, email, phone_number, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, params.Username, params.PasswordHash, params.FullName, params.Email,
		params.PhoneNumber, params.ExpiresAt, params.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *guestUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM guest_users WHERE username = $1)
	`, username)
	return exists, err
}

func (r *guestUserRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.GuestUser, error) {
	users := []model.GuestUser{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT * FROM guest_users
		WHERE created_by = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *guestUserRepo) FindByIDForOwner(ctx context.Context, ownerID, id string) (*model.GuestUser, error) {
	var user model.GuestUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM guest_users WHERE id = $1 AND created_by = $2
	`, id, ownerID)
	return HandleNotFound(&user, err)
}

func (r *guestUserRepo) Update(ctx context.Context, ownerID, id string, params model.UpdateGuestUserParams) (*model.GuestUser, error) {
	var user model.GuestUser
	err := r.db.GetContext(ctx, &user, `
		UPDATE guest_users
		SET is_active = COALESCE($3, is_active),
			expires_at = COALESCE($4, expires_at),
			updated_at = NOW()
		WHERE id = $1 AND created_by = $2
		RETURNING *
	`, id, ownerID, params.IsActive, params.ExpiresAt)
	return HandleNotFound(&user, err)
}

func (r *guestUserRepo) ToggleActive(ctx context.Context, ownerID, id string) (*bool, error) {
	var active bool
	err := r.db.GetContext(ctx, &active, `
		UPDATE guest_users
		SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1 AND created_by = $2
		RETURNING is_active
	`, id, ownerID)
	return HandleNotFound(&active, err)
}

func (r *guestUserRepo) DeleteForOwner(ctx context.Context, ownerID, id string) (bool, error) {
	n, err := affectedRows(r.db.ExecContext(ctx, `
		DELETE FROM guest_users WHERE id = $1 AND created_by = $2
	`, id, ownerID))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
