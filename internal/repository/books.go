package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagekeep/pagekeep/internal/model"
)

const bookColumns = `id, book_name, author_name, isbn_number, published_date,
	COALESCE(book_image, ''), COALESCE(description, ''), number_of_copies, fine, created_at`

// BookRepository handles persistence for the book catalog.
type BookRepository struct {
	db *pgxpool.Pool
}

// NewBookRepository constructs a BookRepository.
func NewBookRepository(db *pgxpool.Pool) *BookRepository {
	return &BookRepository{db: db}
}

// CreateBook inserts a new book and returns it with a generated UUID.
func (r *BookRepository) CreateBook(ctx context.Context, req model.AddBookRequest) (*model.Book, error) {
	book := &model.Book{
		ID:             uuid.New().String(),
		BookName:       req.BookName,
		AuthorName:     req.AuthorName,
		ISBNNumber:     req.ISBNNumber,
		PublishedDate:  req.PublishedDate,
		BookImage:      req.BookImage,
		Description:    req.Description,
		NumberOfCopies: req.NumberOfCopies,
		Fine:           req.Fine,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO books (id, book_name, author_name, isbn_number, published_date,
		                    book_image, description, number_of_copies, fine, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		book.ID, book.BookName, book.AuthorName, book.ISBNNumber, book.PublishedDate,
		book.BookImage, book.Description, book.NumberOfCopies, book.Fine, book.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return book, nil
}

// AllBooks returns the catalog ordered by publication date descending.
func (r *BookRepository) AllBooks(ctx context.Context) ([]model.Book, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY published_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

// BookByID returns a single book or ErrNotFound.
func (r *BookRepository) BookByID(ctx context.Context, id string) (*model.Book, error) {
	var b model.Book
	err := r.db.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`, id,
	).Scan(&b.ID, &b.BookName, &b.AuthorName, &b.ISBNNumber, &b.PublishedDate,
		&b.BookImage, &b.Description, &b.NumberOfCopies, &b.Fine, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

// DeleteBook removes a book and returns the deleted row, or ErrNotFound.
// Cart items, reservations and feedback go with it via cascades.
func (r *BookRepository) DeleteBook(ctx context.Context, id string) (*model.Book, error) {
	book, err := r.BookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete book: %w", err)
	}
	return book, nil
}

// AdjustCopies changes number_of_copies by delta and returns the updated
// book. A decrement that would go below zero returns ErrNoCopiesLeft.
func (r *BookRepository) AdjustCopies(ctx context.Context, id string, delta int) (*model.Book, error) {
	var b model.Book
	err := r.db.QueryRow(ctx,
		`UPDATE books SET number_of_copies = number_of_copies + $2
		 WHERE id = $1 AND number_of_copies + $2 >= 0
		 RETURNING `+bookColumns,
		id, delta,
	).Scan(&b.ID, &b.BookName, &b.AuthorName, &b.ISBNNumber, &b.PublishedDate,
		&b.BookImage, &b.Description, &b.NumberOfCopies, &b.Fine, &b.CreatedAt)
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust copies: %w", err)
	}
	// Either the book is absent or the guard refused the decrement.
	if _, lookupErr := r.BookByID(ctx, id); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, ErrNoCopiesLeft
}

// SearchBooks returns name suggestions matching the query against book
// or author names, case-insensitively.
func (r *BookRepository) SearchBooks(ctx context.Context, query string) ([]model.BookSuggestion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT book_name FROM books WHERE book_name ILIKE $1 OR author_name ILIKE $1`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()

	var suggestions []model.BookSuggestion
	for rows.Next() {
		var s model.BookSuggestion
		if err := rows.Scan(&s.BookName); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

// AddUseByDate appends a projected availability date to an existing
// book and returns all of the book's dates.
func (r *BookRepository) AddUseByDate(ctx context.Context, bookID string, willUseBy model.Date) ([]model.UseByDate, error) {
	if _, err := r.BookByID(ctx, bookID); err != nil {
		return nil, err
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO use_by_dates (id, book_id, will_use_by) VALUES ($1, $2, $3)`,
		uuid.New().String(), bookID, willUseBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert use-by date: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, book_id, will_use_by, created_at FROM use_by_dates
		 WHERE book_id = $1 ORDER BY will_use_by`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("list use-by dates: %w", err)
	}
	defer rows.Close()

	var dates []model.UseByDate
	for rows.Next() {
		var d model.UseByDate
		if err := rows.Scan(&d.ID, &d.BookID, &d.WillUseBy, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan use-by date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func scanBooks(rows pgx.Rows) ([]model.Book, error) {
	var books []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.BookName, &b.AuthorName, &b.ISBNNumber, &b.PublishedDate,
			&b.BookImage, &b.Description, &b.NumberOfCopies, &b.Fine, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
