package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

func newWishlistService(wishlists *mockWishlistRepository) *WishlistService {
	return NewWishlistService(wishlists, newTestProducer(), newTestLogger())
}

func TestWishlistService_List_Unauthenticated(t *testing.T) {
	svc := newWishlistService(new(mockWishlistRepository))

	got := svc.List(context.Background(), "")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWishlistService_List_FailureDegradesToEmpty(t *testing.T) {
	wishlists := new(mockWishlistRepository)
	wishlists.On("List", mock.Anything, "user-1").Return(nil, assert.AnError)

	svc := newWishlistService(wishlists)
	got := svc.List(context.Background(), "user-1")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWishlistService_Add(t *testing.T) {
	wishlists := new(mockWishlistRepository)
	wishlists.On("List", mock.Anything, "user-1").Return([]domain.WishlistItem{}, nil)
	wishlists.On("Add", mock.Anything, "user-1", mock.AnythingOfType("*domain.WishlistItem")).
		Return(&domain.WishlistItem{ID: 1, ProductID: 7}, nil)

	svc := newWishlistService(wishlists)
	result, err := svc.Add(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.Item)
	assert.Equal(t, 7, result.Item.ProductID)
}

func TestWishlistService_Add_AlreadyPresent(t *testing.T) {
	wishlists := new(mockWishlistRepository)
	wishlists.On("List", mock.Anything, "user-1").Return([]domain.WishlistItem{
		{ID: 1, ProductID: 7},
	}, nil)

	svc := newWishlistService(wishlists)
	result, err := svc.Add(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "already in wishlist", result.Message)
	wishlists.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistService_Add_Unauthenticated(t *testing.T) {
	svc := newWishlistService(new(mockWishlistRepository))

	_, err := svc.Add(context.Background(), "", 7)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestWishlistService_Remove_Absent(t *testing.T) {
	wishlists := new(mockWishlistRepository)
	wishlists.On("Remove", mock.Anything, "user-1", 7).
		Return(apperrors.NotFound("wishlist item", "7"))

	svc := newWishlistService(wishlists)
	result, err := svc.Remove(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "not in wishlist", result.Message)
}

func TestWishlistService_Remove(t *testing.T) {
	wishlists := new(mockWishlistRepository)
	wishlists.On("Remove", mock.Anything, "user-1", 7).Return(nil)

	svc := newWishlistService(wishlists)
	result, err := svc.Remove(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestWishlistService_Toggle(t *testing.T) {
	wishlists := new(mockWishlistRepository)
	// Absent: toggle adds.
	wishlists.On("List", mock.Anything, "user-1").Return([]domain.WishlistItem{}, nil).Once()
	wishlists.On("List", mock.Anything, "user-1").Return([]domain.WishlistItem{}, nil).Once()
	wishlists.On("Add", mock.Anything, "user-1", mock.AnythingOfType("*domain.WishlistItem")).
		Return(&domain.WishlistItem{ID: 1, ProductID: 7}, nil).Once()

	svc := newWishlistService(wishlists)
	result, err := svc.Toggle(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "added to wishlist", result.Message)

	// Present: toggle removes.
	wishlists.On("List", mock.Anything, "user-1").Return([]domain.WishlistItem{
		{ID: 1, ProductID: 7},
	}, nil).Once()
	wishlists.On("Remove", mock.Anything, "user-1", 7).Return(nil).Once()

	result, err = svc.Toggle(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "removed from wishlist", result.Message)
}

func TestWishlistService_IsInWishlist(t *testing.T) {
	wishlists := new(mockWishlistRepository)
	wishlists.On("List", mock.Anything, "user-1").Return([]domain.WishlistItem{
		{ID: 1, ProductID: 7},
	}, nil)

	svc := newWishlistService(wishlists)
	assert.True(t, svc.IsInWishlist(context.Background(), "user-1", 7))
	assert.False(t, svc.IsInWishlist(context.Background(), "user-1", 9))
}

func TestWishlistService_Clear(t *testing.T) {
	wishlists := new(mockWishlistRepository)
	wishlists.On("Clear", mock.Anything, "user-1").Return(nil)

	svc := newWishlistService(wishlists)
	require.NoError(t, svc.Clear(context.Background(), "user-1"))

	assert.ErrorIs(t, svc.Clear(context.Background(), ""), apperrors.ErrUnauthenticated)
}
