package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
	"github.com/pagekeep/pagekeep/internal/testutil"
)

func TestAddToCart(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewCartService(store)
	book := store.SeedBook(model.Book{BookName: "Go Patterns", NumberOfCopies: 2})

	req := model.UserBookRequest{UserID: "u1", BookID: book.ID}
	require.NoError(t, svc.AddToCart(ctx, req))

	// Second add of the same book is a conflict, not a no-op.
	assert.ErrorIs(t, svc.AddToCart(ctx, req), repository.ErrAlreadyInCart)

	cart, err := svc.CartItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, book.ID, cart.Items[0].ID)
}

func TestCartItemsUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(testutil.NewStore())

	_, err := svc.CartItems(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewCartService(store)
	book := store.SeedBook(model.Book{BookName: "Go Patterns", NumberOfCopies: 2})

	req := model.UserBookRequest{UserID: "u1", BookID: book.ID}
	require.NoError(t, svc.AddToCart(ctx, req))
	require.NoError(t, svc.RemoveFromCart(ctx, req))

	cart, err := svc.CartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Removing again reports not found.
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, req), repository.ErrNotFound)
}

func TestRemoveFromAllCarts(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewCartService(store)
	delisted := store.SeedBook(model.Book{BookName: "Delisted", NumberOfCopies: 1})
	kept := store.SeedBook(model.Book{BookName: "Kept", NumberOfCopies: 1})

	for _, userID := range []string{"u1", "u2", "u3"} {
		require.NoError(t, svc.AddToCart(ctx, model.UserBookRequest{UserID: userID, BookID: delisted.ID}))
	}
	require.NoError(t, svc.AddToCart(ctx, model.UserBookRequest{UserID: "u1", BookID: kept.ID}))

	removed, err := svc.RemoveFromAllCarts(ctx, delisted.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	// Unrelated cart contents survive the purge.
	cart, err := svc.CartItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, kept.ID, cart.Items[0].ID)
}
