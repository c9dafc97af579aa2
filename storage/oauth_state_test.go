package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harut-11/Emotional/apperrors"
)

func TestMemoryRequestTokenStoreTakeRemovesEntry(t *testing.T) {
	store := NewMemoryRequestTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "req-token", "req-secret"))

	secret, err := store.Take(ctx, "req-token")
	require.NoError(t, err)
	require.Equal(t, "req-secret", secret)

	// 取出即删除，二次取回失败
	_, err = store.Take(ctx, "req-token")
	require.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMemoryRequestTokenStoreTakeMissing(t *testing.T) {
	store := NewMemoryRequestTokenStore()

	_, err := store.Take(context.Background(), "unknown")
	require.True(t, errors.Is(err, apperrors.ErrNotFound))
}
