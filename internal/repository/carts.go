package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagekeep/pagekeep/internal/model"
)

// CartRepository handles persistence for carts and their items.
// A user has at most one cart, created on first add.
type CartRepository struct {
	db *pgxpool.Pool
}

// NewCartRepository constructs a CartRepository.
func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

// AddCartItem puts a book into the user's cart, creating the cart if
// the user has none. Re-adding the same book returns ErrAlreadyInCart.
func (r *CartRepository) AddCartItem(ctx context.Context, userID, bookID string) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO cart_items (id, cart_id, book_id) VALUES ($1, $2, $3)`,
		uuid.New().String(), cartID, bookID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyInCart
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// ensureCart returns the id of the user's cart, creating it if absent.
func (r *CartRepository) ensureCart(ctx context.Context, userID string) (string, error) {
	var cartID string
	err := r.db.QueryRow(ctx,
		`INSERT INTO carts (id, user_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id`,
		uuid.New().String(), userID,
	).Scan(&cartID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("ensure cart: %w", err)
	}
	return cartID, nil
}

// CartItems returns the books in the user's cart, or ErrNotFound when
// the user has no cart at all.
func (r *CartRepository) CartItems(ctx context.Context, userID string) ([]model.Book, error) {
	cartID, err := r.cartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+cartBookColumns+`
		 FROM cart_items ci
		 JOIN books b ON b.id = ci.book_id
		 WHERE ci.cart_id = $1`,
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

// AllCartItems returns every user's cart contents.
func (r *CartRepository) AllCartItems(ctx context.Context) ([]model.UserCart, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.user_id, `+cartBookColumns+`
		 FROM carts c
		 JOIN cart_items ci ON ci.cart_id = c.id
		 JOIN books b ON b.id = ci.book_id
		 ORDER BY c.user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list all carts: %w", err)
	}
	defer rows.Close()

	var carts []model.UserCart
	byUser := make(map[string]int)
	for rows.Next() {
		var userID string
		var b model.Book
		if err := rows.Scan(&userID, &b.ID, &b.BookName, &b.AuthorName, &b.ISBNNumber, &b.PublishedDate,
			&b.BookImage, &b.Description, &b.NumberOfCopies, &b.Fine, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		idx, ok := byUser[userID]
		if !ok {
			idx = len(carts)
			byUser[userID] = idx
			carts = append(carts, model.UserCart{UserID: userID})
		}
		carts[idx].Items = append(carts[idx].Items, b)
	}
	return carts, rows.Err()
}

// RemoveCartItem deletes the (cart, book) pairing. ErrNotFound means
// the user has no cart; removing an absent book is a no-op.
func (r *CartRepository) RemoveCartItem(ctx context.Context, userID, bookID string) error {
	cartID, err := r.cartByUser(ctx, userID)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND book_id = $2`,
		cartID, bookID,
	)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// RemoveBookFromAllCarts purges a book from every cart and returns how
// many rows went away. Zero rows is not an error.
func (r *CartRepository) RemoveBookFromAllCarts(ctx context.Context, bookID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE book_id = $1`, bookID)
	if err != nil {
		return 0, fmt.Errorf("purge book from carts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *CartRepository) cartByUser(ctx context.Context, userID string) (string, error) {
	var cartID string
	err := r.db.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get cart: %w", err)
	}
	return cartID, nil
}

// cartBookColumns is the book column list for joins selecting whole
// book rows out of a cart.
const cartBookColumns = `b.id, b.book_name, b.author_name, b.isbn_number, b.published_date,
	COALESCE(b.book_image, ''), COALESCE(b.description, ''), b.number_of_copies, b.fine, b.created_at`
