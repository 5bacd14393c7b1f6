package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/ucu-wifi/guest-portal-go/internal/model"
	"github.com/ucu-wifi/guest-portal-go/internal/repository"
)

type mockSessionRepo struct {
	deleteExpiredCount int64
	deleteExpiredErr   error
	calls              atomic.Int32
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) FindValid(ctx context.Context, adminID, tokenHash string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) DeleteByAdminID(ctx context.Context, adminID string) (int64, error) {
	return 0, nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls.Add(1)
	return m.deleteExpiredCount, m.deleteExpiredErr
}

func (m *mockSessionRepo) WithTx(tx *sqlx.Tx) repository.SessionRepository {
	return m
}

func TestCleanupJob(t *testing.T) {
	t.Run("runs immediately on start", func(t *testing.T) {
		repo := &mockSessionRepo{deleteExpiredCount: 3}
		job := NewCleanupJob(repo, time.Hour)

		job.Start()
		assert.Eventually(t, func() bool { return repo.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
		job.Stop()

		assert.Equal(t, int32(1), repo.calls.Load())
	})

	t.Run("runs again on each tick", func(t *testing.T) {
		repo := &mockSessionRepo{}
		job := NewCleanupJob(repo, 10*time.Millisecond)

		job.Start()
		assert.Eventually(t, func() bool { return repo.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
		job.Stop()
	})

	t.Run("keeps running after a failed pass", func(t *testing.T) {
		repo := &mockSessionRepo{deleteExpiredErr: errors.New("connection reset")}
		job := NewCleanupJob(repo, 10*time.Millisecond)

		job.Start()
		assert.Eventually(t, func() bool { return repo.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		job.Stop()
	})

	t.Run("stop waits for the loop to exit", func(t *testing.T) {
		repo := &mockSessionRepo{}
		job := NewCleanupJob(repo, time.Hour)

		job.Start()
		job.Stop()

		select {
		case <-job.stopped:
		default:
			t.Fatal("loop still running after Stop")
		}
	})
}
