package record

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/recordstore/memory"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

func TestWishlistRepository_AddAndList(t *testing.T) {
	repo := NewWishlistRepository(memory.New())
	ctx := context.Background()

	item, err := repo.Add(ctx, "user-1", &domain.WishlistItem{
		ProductID: 7,
		AddedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	_, err = repo.Add(ctx, "other-user", &domain.WishlistItem{ProductID: 7})
	require.NoError(t, err)

	items, err := repo.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ProductID)
}

func TestWishlistRepository_Remove(t *testing.T) {
	repo := NewWishlistRepository(memory.New())
	ctx := context.Background()

	_, err := repo.Add(ctx, "user-1", &domain.WishlistItem{ProductID: 7})
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, "user-1", 7))

	items, err := repo.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistRepository_Remove_Absent(t *testing.T) {
	repo := NewWishlistRepository(memory.New())

	err := repo.Remove(context.Background(), "user-1", 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWishlistRepository_Clear(t *testing.T) {
	repo := NewWishlistRepository(memory.New())
	ctx := context.Background()

	for _, id := range []int{1, 2, 3} {
		_, err := repo.Add(ctx, "user-1", &domain.WishlistItem{ProductID: id})
		require.NoError(t, err)
	}

	require.NoError(t, repo.Clear(ctx, "user-1"))

	items, err := repo.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Clearing an empty wishlist is a no-op.
	require.NoError(t, repo.Clear(ctx, "user-1"))
}
