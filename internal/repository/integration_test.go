package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucu-wifi/guest-portal-go/internal/database"
	"github.com/ucu-wifi/guest-portal-go/internal/migrations"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
)

// setupTestDB connects to TEST_DATABASE_URL and applies the schema. Tests
// using it are skipped when the variable is unset.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = migrations.NewRunner(db.DB).Up(context.Background())
	require.NoError(t, err)
	return db
}

func createTestAdmin(t *testing.T, repo AdminRepository) *model.Admin {
	t.Helper()
	admin, err := repo.Create(context.Background(), model.CreateAdminParams{
		Email:        uuid.NewString()[:8] + "@ucu.ac.ug",
		PasswordHash: "$2a$12$placeholder",
	})
	require.NoError(t, err)
	return admin
}

func TestGuestUserRepository_OwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	admins := NewAdminRepository(db.DB)
	guests := NewGuestUserRepository(db.DB)

	owner := createTestAdmin(t, admins)
	other := createTestAdmin(t, admins)

	user, err := guests.Create(ctx, model.CreateGuestUserParams{
		Username:     "G" + uuid.NewString()[:4] + "@visitor.ucu.ac.ug",
		PasswordHash: "$2a$12$placeholder",
		FullName:     "Jane Guest",
		Email:        "jane@example.com",
		PhoneNumber:  "+256700000000",
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		CreatedBy:    owner.ID,
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	found, err := guests.FindByIDForOwner(ctx, other.ID, user.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	active, err := guests.ToggleActive(ctx, other.ID, user.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	deleted, err := guests.DeleteForOwner(ctx, other.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	list, err := guests.ListByOwner(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	active, err = guests.ToggleActive(ctx, owner.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.False(t, *active)

	deleted, err = guests.DeleteForOwner(ctx, owner.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	admin := createTestAdmin(t, NewAdminRepository(db.DB))
	sessions := NewSessionRepository(db.DB)

	_, err := sessions.Create(ctx, model.CreateSessionParams{
		AdminID:   admin.ID,
		TokenHash: "live",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = sessions.Create(ctx, model.CreateSessionParams{
		AdminID:   admin.ID,
		TokenHash: "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	live, err := sessions.FindValid(ctx, admin.ID, "live")
	require.NoError(t, err)
	assert.NotNil(t, live)

	stale, err := sessions.FindValid(ctx, admin.ID, "stale")
	require.NoError(t, err)
	assert.Nil(t, stale)

	n, err := sessions.DeleteByAdminID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	live, err = sessions.FindValid(ctx, admin.ID, "live")
	require.NoError(t, err)
	assert.Nil(t, live)
}
