package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/httpx"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client, time.Hour), mr
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id := Identity{UserID: uuid.New(), Role: RoleManager}
	token, err := store.Issue(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := store.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestVerifyRejectsUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Verify(context.Background(), "bogus")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = store.Verify(context.Background(), "")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Identity{UserID: uuid.New(), Role: RoleStaff})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Verify(ctx, token)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestRevokeKillsTokenImmediately(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Identity{UserID: uuid.New(), Role: RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Verify(ctx, token)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestIssuedTokensAreDistinct(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id := Identity{UserID: uuid.New(), Role: RoleStaff}
	first, err := store.Issue(ctx, id)
	require.NoError(t, err)
	second, err := store.Issue(ctx, id)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
