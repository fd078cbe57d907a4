package service

import (
	"context"
	"strings"

	"github.com/pagekeep/pagekeep/internal/model"
)

// BookStore is the persistence surface BookService needs.
type BookStore interface {
	CreateBook(ctx context.Context, req model.AddBookRequest) (*model.Book, error)
	AllBooks(ctx context.Context) ([]model.Book, error)
	BookByID(ctx context.Context, id string) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) (*model.Book, error)
	AdjustCopies(ctx context.Context, id string, delta int) (*model.Book, error)
	SearchBooks(ctx context.Context, query string) ([]model.BookSuggestion, error)
	AddUseByDate(ctx context.Context, bookID string, willUseBy model.Date) ([]model.UseByDate, error)
}

// BookService orchestrates catalog operations.
type BookService struct {
	books BookStore
}

// NewBookService constructs a BookService.
func NewBookService(books BookStore) *BookService {
	return &BookService{books: books}
}

// AddBook validates and catalogs a new book.
func (s *BookService) AddBook(ctx context.Context, req model.AddBookRequest) (*model.Book, error) {
	req.BookName = strings.TrimSpace(req.BookName)
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.ISBNNumber = strings.TrimSpace(req.ISBNNumber)
	switch {
	case req.BookName == "":
		return nil, invalidf("bookName is required")
	case req.AuthorName == "":
		return nil, invalidf("authorName is required")
	case req.ISBNNumber == "":
		return nil, invalidf("isbnNumber is required")
	case req.PublishedDate.IsZero():
		return nil, invalidf("publishedDate is required")
	case req.NumberOfCopies <= 0:
		return nil, invalidf("numberOfCopies must be a positive integer")
	case req.Fine < 0:
		return nil, invalidf("fine cannot be negative")
	}
	return s.books.CreateBook(ctx, req)
}

// AllBooks returns the whole catalog.
func (s *BookService) AllBooks(ctx context.Context) ([]model.Book, error) {
	return s.books.AllBooks(ctx)
}

// BookByID returns a single book.
func (s *BookService) BookByID(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, invalidf("book id is required")
	}
	return s.books.BookByID(ctx, id)
}

// DeleteBook removes a book from the catalog and returns the deleted row.
func (s *BookService) DeleteBook(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, invalidf("book id is required")
	}
	return s.books.DeleteBook(ctx, id)
}

// IncreaseCopies adds one copy to a book.
func (s *BookService) IncreaseCopies(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, invalidf("book id is required")
	}
	return s.books.AdjustCopies(ctx, id, 1)
}

// DecreaseCopies removes one copy from a book; refuses to go below zero.
func (s *BookService) DecreaseCopies(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, invalidf("book id is required")
	}
	return s.books.AdjustCopies(ctx, id, -1)
}

// Suggestions returns book-name suggestions for a search query.
func (s *BookService) Suggestions(ctx context.Context, query string) ([]model.BookSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidf("search query is required")
	}
	return s.books.SearchBooks(ctx, query)
}

// AddUseByDate attaches a projected availability date to a book.
func (s *BookService) AddUseByDate(ctx context.Context, bookID string, willUseBy model.Date) ([]model.UseByDate, error) {
	if bookID == "" {
		return nil, invalidf("book id is required")
	}
	if willUseBy.IsZero() {
		return nil, invalidf("willUseBy is required")
	}
	return s.books.AddUseByDate(ctx, bookID, willUseBy)
}
