package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/realmquickcart/internal/recordstore"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

func TestStore_CreateAndGetByID(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Create(ctx, "product_c", []recordstore.Record{
		{"name_c": "Headphones", "price_c": 199.0},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.NotZero(t, created[0].ID())

	got, err := s.GetByID(ctx, "product_c", created[0].ID())
	require.NoError(t, err)
	assert.Equal(t, "Headphones", got.String("name_c"))
}

func TestStore_GetByID_NotFound(t *testing.T) {
	s := New()

	_, err := s.GetByID(context.Background(), "product_c", 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_Fetch_Filtered(t *testing.T) {
	s := New()
	s.Seed("product_c",
		recordstore.Record{"Id": 1, "category_c": "Electronics"},
		recordstore.Record{"Id": 2, "category_c": "Home"},
		recordstore.Record{"Id": 3, "category_c": "Electronics"},
	)

	got, err := s.Fetch(context.Background(), "product_c", recordstore.Query{
		Where: []recordstore.Filter{
			{FieldName: "category_c", Operator: recordstore.OpEqualTo, Values: []string{"Electronics"}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStore_Update(t *testing.T) {
	s := New()
	s.Seed("cart_item_c", recordstore.Record{"Id": 1, "quantity_c": 2})

	updated, err := s.Update(context.Background(), "cart_item_c", []recordstore.Record{
		{"Id": 1, "quantity_c": 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated[0].Int("quantity_c"))

	got, err := s.GetByID(context.Background(), "cart_item_c", 1)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Int("quantity_c"))
}

func TestStore_Update_MissingRecord(t *testing.T) {
	s := New()

	_, err := s.Update(context.Background(), "cart_item_c", []recordstore.Record{{"Id": 9}})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := New()
	s.Seed("wishlist_item_c",
		recordstore.Record{"Id": 1},
		recordstore.Record{"Id": 2},
	)

	require.NoError(t, s.Delete(context.Background(), "wishlist_item_c", []int{1, 99}))

	got, err := s.Fetch(context.Background(), "wishlist_item_c", recordstore.Query{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID())
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := New()
	s.Seed("product_c", recordstore.Record{"Id": 1, "name_c": "Lamp"})

	got, err := s.GetByID(context.Background(), "product_c", 1)
	require.NoError(t, err)
	got["name_c"] = "Mutated"

	again, err := s.GetByID(context.Background(), "product_c", 1)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", again.String("name_c"))
}
