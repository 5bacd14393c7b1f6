package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ucu-wifi/guest-portal-go/internal/database"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id string) (*model.Admin, error)
	Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AdminRepository
}

type adminRepo struct {
	db database.DBTX
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) WithTx(tx *sqlx.Tx) AdminRepository {
	return &adminRepo{db: tx}
}

func (r *adminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `
		SELECT * FROM admins WHERE email = $1
	`, email)
	return HandleNotFound(&admin, err)
}

func (r *adminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `
		SELECT * FROM admins WHERE id = $1
	`, id)
	return HandleNotFound(&admin, err)
}

func (r *adminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
		RETURNING *
	`, params.Email, params.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
