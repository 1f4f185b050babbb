package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrRefresh_CachesWithinTTL(t *testing.T) {
	now := time.Date(2025, time.August, 20, 8, 0, 0, 0, time.UTC)
	store := New(func() time.Time { return now })

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return "payload", nil
	}

	v, err := store.GetOrRefresh(context.Background(), "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	now = now.Add(59 * time.Second)
	_, err = store.GetOrRefresh(context.Background(), "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
}

func TestGetOrRefresh_ReloadsAfterExpiry(t *testing.T) {
	now := time.Date(2025, time.August, 20, 8, 0, 0, 0, time.UTC)
	store := New(func() time.Time { return now })

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return loads, nil
	}

	_, err := store.GetOrRefresh(context.Background(), "k", time.Minute, loader)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	v, err := store.GetOrRefresh(context.Background(), "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGetOrRefresh_LoaderErrorNotCached(t *testing.T) {
	store := New(nil)

	boom := errors.New("boom")
	_, err := store.GetOrRefresh(context.Background(), "k", time.Minute, func(context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := store.GetOrRefresh(context.Background(), "k", time.Minute, func(context.Context) (any, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
}

func TestInvalidate(t *testing.T) {
	now := time.Date(2025, time.August, 20, 8, 0, 0, 0, time.UTC)
	store := New(func() time.Time { return now })

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return loads, nil
	}

	_, err := store.GetOrRefresh(context.Background(), "k", time.Hour, loader)
	require.NoError(t, err)

	store.Invalidate("k")

	v, err := store.GetOrRefresh(context.Background(), "k", time.Hour, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestKeysAreIndependent(t *testing.T) {
	store := New(nil)

	_, err := store.GetOrRefresh(context.Background(), "a", time.Hour, func(context.Context) (any, error) {
		return "A", nil
	})
	require.NoError(t, err)

	v, err := store.GetOrRefresh(context.Background(), "b", time.Hour, func(context.Context) (any, error) {
		return "B", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "B", v)
}
