package locks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	token, err := l.TryLock(ctx, "invoice:task:1", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = l.TryLock(ctx, "invoice:task:1", time.Minute)
	assert.ErrorIs(t, err, ErrLockHeld)

	// A different key is independent.
	_, err = l.TryLock(ctx, "invoice:task:2", time.Minute)
	require.NoError(t, err)

	require.NoError(t, l.Release(ctx, "invoice:task:1", token))
	_, err = l.TryLock(ctx, "invoice:task:1", time.Minute)
	require.NoError(t, err)
}

func TestLocalLocker_ReleaseRequiresMatchingToken(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	token, err := l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)

	// A stale token must not free someone else's lock.
	require.NoError(t, l.Release(ctx, "k", "not-the-token"))
	_, err = l.TryLock(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, l.Release(ctx, "k", token))
}

func TestLocalLocker_EmptyKey(t *testing.T) {
	l := NewLocalLocker()

	_, err := l.TryLock(context.Background(), "", time.Minute)
	assert.Error(t, err)
}
