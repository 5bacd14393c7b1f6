package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/ucu-wifi/guest-portal-go/internal/model"
	"github.com/ucu-wifi/guest-portal-go/internal/notify"
	"github.com/ucu-wifi/guest-portal-go/internal/repository"
)

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *mockAdminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *mockAdminRepo) WithTx(tx *sqlx.Tx) repository.AdminRepository {
	return m
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) FindValid(ctx context.Context, adminID, tokenHash string) (*model.Session, error) {
	args := m.Called(ctx, adminID, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) DeleteByAdminID(ctx context.Context, adminID string) (int64, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) WithTx(tx *sqlx.Tx) repository.SessionRepository {
	return m
}

type mockGuestUserRepo struct {
	mock.Mock
}

func (m *mockGuestUserRepo) Create(ctx context.Context, params model.CreateGuestUserParams) (*model.GuestUser, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuestUser), args.Error(1)
}

func (m *mockGuestUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockGuestUserRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.GuestUser, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GuestUser), args.Error(1)
}

func (m *mockGuestUserRepo) FindByIDForOwner(ctx context.Context, ownerID, id string) (*model.GuestUser, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuestUser), args.Error(1)
}

func (m *mockGuestUserRepo) Update(ctx context.Context, ownerID, id string, params model.UpdateGuestUserParams) (*model.GuestUser, error) {
	args := m.Called(ctx, ownerID, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuestUser), args.Error(1)
}

func (m *mockGuestUserRepo) ToggleActive(ctx context.Context, ownerID, id string) (*bool, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bool), args.Error(1)
}

func (m *mockGuestUserRepo) DeleteForOwner(ctx context.Context, ownerID, id string) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockGuestUserRepo) WithTx(tx *sqlx.Tx) repository.GuestUserRepository {
	return m
}

// notifierFunc adapts a function to notify.Notifier.
type notifierFunc func(ctx context.Context, c notify.Credentials) error

func (f notifierFunc) Send(ctx context.Context, c notify.Credentials) error {
	return f(ctx, c)
}
