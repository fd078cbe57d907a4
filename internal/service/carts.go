package service

import (
	"context"

	"github.com/pagekeep/pagekeep/internal/model"
)

// CartStore is the persistence surface CartService needs.
type CartStore interface {
	AddCartItem(ctx context.Context, userID, bookID string) error
	CartItems(ctx context.Context, userID string) ([]model.Book, error)
	AllCartItems(ctx context.Context) ([]model.UserCart, error)
	RemoveCartItem(ctx context.Context, userID, bookID string) error
	RemoveBookFromAllCarts(ctx context.Context, bookID string) (int64, error)
}

// CartService orchestrates cart operations.
type CartService struct {
	carts CartStore
}

// NewCartService constructs a CartService.
func NewCartService(carts CartStore) *CartService {
	return &CartService{carts: carts}
}

// AddToCart puts a book in the user's cart, creating the cart on first use.
func (s *CartService) AddToCart(ctx context.Context, req model.UserBookRequest) error {
	if req.UserID == "" || req.BookID == "" {
		return invalidf("userId and bookId are required")
	}
	return s.carts.AddCartItem(ctx, req.UserID, req.BookID)
}

// CartItems returns the books in the user's cart.
func (s *CartService) CartItems(ctx context.Context, userID string) (*model.UserCart, error) {
	if userID == "" {
		return nil, invalidf("userId is required")
	}
	items, err := s.carts.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Book{}
	}
	return &model.UserCart{UserID: userID, Items: items}, nil
}

// AllCarts returns every user's cart contents.
func (s *CartService) AllCarts(ctx context.Context) ([]model.UserCart, error) {
	return s.carts.AllCartItems(ctx)
}

// RemoveFromCart deletes the (user, book) pairing from the user's cart.
func (s *CartService) RemoveFromCart(ctx context.Context, req model.UserBookRequest) error {
	if req.UserID == "" || req.BookID == "" {
		return invalidf("userId and bookId are required")
	}
	return s.carts.RemoveCartItem(ctx, req.UserID, req.BookID)
}

// RemoveFromAllCarts purges a book from every cart, e.g. when it is
// delisted. Librarian-privileged; returns how many cart rows went away.
func (s *CartService) RemoveFromAllCarts(ctx context.Context, bookID string) (int64, error) {
	if bookID == "" {
		return 0, invalidf("bookId is required")
	}
	return s.carts.RemoveBookFromAllCarts(ctx, bookID)
}
