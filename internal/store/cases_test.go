package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]CaseStore {
	t.Helper()

	sqliteStore, err := NewSQLiteCaseStore(filepath.Join(t.TempDir(), "cases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisStore := NewRedisCaseStore(client, "test")
	t.Cleanup(func() { redisStore.Close() })

	return map[string]CaseStore{
		"sqlite": sqliteStore,
		"redis":  redisStore,
		"memory": NewMemoryCaseStore(),
	}
}

func TestCaseStores(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "case-1001")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.Get(ctx, "")
			assert.ErrorIs(t, err, ErrInvalidID)

			added, err := SeedCases(ctx, s, SampleCases())
			require.NoError(t, err)
			assert.Equal(t, 3, added)

			c, err := s.Get(ctx, "case-1001")
			require.NoError(t, err)
			assert.Equal(t, "Aarav Sharma", c.UserName)
			assert.Equal(t, int64(499900), c.Amount)
			assert.False(t, c.TransactionTime.IsZero())

			found, err := s.FindPendingByUser(ctx, "priya NAIR")
			require.NoError(t, err)
			assert.Equal(t, "case-1002", found.ID)

			found.Status = StatusFraud
			found.OutcomeNote = "customer denied the transaction"
			require.NoError(t, s.Put(ctx, found))

			_, err = s.FindPendingByUser(ctx, "Priya Nair")
			assert.ErrorIs(t, err, ErrNotFound)

			reloaded, err := s.Get(ctx, "case-1002")
			require.NoError(t, err)
			assert.Equal(t, StatusFraud, reloaded.Status)
			assert.Equal(t, "customer denied the transaction", reloaded.OutcomeNote)

			// Seeding again must not reset updated cases.
			added, err = SeedCases(ctx, s, SampleCases())
			require.NoError(t, err)
			assert.Zero(t, added)

			all, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "case-1001", all[0].ID)
			assert.Equal(t, StatusFraud, all[1].Status)

			assert.ErrorIs(t, s.Put(ctx, &FraudCase{}), ErrInvalidID)
		})
	}
}

func TestOpenCaseStore(t *testing.T) {
	ctx := context.Background()

	s, err := OpenCaseStore(ctx, CaseStoreOptions{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCaseStore{}, s)

	s, err = OpenCaseStore(ctx, CaseStoreOptions{SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteCaseStore{}, s)
	require.NoError(t, s.Close())

	mr := miniredis.RunT(t)
	s, err = OpenCaseStore(ctx, CaseStoreOptions{Backend: "Redis", RedisAddr: mr.Addr(), RedisPrefix: "p"})
	require.NoError(t, err)
	assert.IsType(t, &RedisCaseStore{}, s)
	require.NoError(t, s.Put(ctx, &FraudCase{ID: "a", Status: StatusPending}))
	assert.True(t, mr.Exists("p:fraud:case:a"))
	require.NoError(t, s.Close())

	_, err = OpenCaseStore(ctx, CaseStoreOptions{Backend: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestMemoryCaseStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCaseStore()
	require.NoError(t, s.Put(ctx, &FraudCase{ID: "x", Status: StatusPending}))

	c, err := s.Get(ctx, "x")
	require.NoError(t, err)
	c.Status = StatusSafe

	again, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)
}
