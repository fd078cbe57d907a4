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

func validBookReq() model.AddBookRequest {
	return model.AddBookRequest{
		BookName:       "The Go Programming Language",
		AuthorName:     "Donovan & Kernighan",
		ISBNNumber:     "978-0134190440",
		PublishedDate:  model.Today(),
		NumberOfCopies: 3,
		Fine:           10,
	}
}

func TestAddBook(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(testutil.NewStore())

	book, err := svc.AddBook(ctx, validBookReq())
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, 3, book.NumberOfCopies)

	got, err := svc.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.BookName, got.BookName)
}

func TestAddBookValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(testutil.NewStore())

	tests := []struct {
		name   string
		mutate func(*model.AddBookRequest)
	}{
		{"missing name", func(r *model.AddBookRequest) { r.BookName = "  " }},
		{"missing author", func(r *model.AddBookRequest) { r.AuthorName = "" }},
		{"missing isbn", func(r *model.AddBookRequest) { r.ISBNNumber = "" }},
		{"missing published date", func(r *model.AddBookRequest) { r.PublishedDate = model.Date{} }},
		{"zero copies", func(r *model.AddBookRequest) { r.NumberOfCopies = 0 }},
		{"negative fine", func(r *model.AddBookRequest) { r.Fine = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBookReq()
			tt.mutate(&req)
			_, err := svc.AddBook(ctx, req)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestAdjustCopies(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewBookService(store)
	book := store.SeedBook(model.Book{BookName: "Solo", NumberOfCopies: 1})

	got, err := svc.IncreaseCopies(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumberOfCopies)

	got, err = svc.DecreaseCopies(ctx, book.ID)
	require.NoError(t, err)
	got, err = svc.DecreaseCopies(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumberOfCopies)

	// The count never goes negative.
	_, err = svc.DecreaseCopies(ctx, book.ID)
	assert.ErrorIs(t, err, repository.ErrNoCopiesLeft)
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewBookService(store)
	book := store.SeedBook(model.Book{BookName: "Ephemeral", NumberOfCopies: 1})

	deleted, err := svc.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, deleted.ID)

	_, err = svc.BookByID(ctx, book.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSuggestions(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewBookService(store)
	store.SeedBook(model.Book{BookName: "Go Patterns", AuthorName: "Pike", NumberOfCopies: 1})
	store.SeedBook(model.Book{BookName: "Rust Atlas", AuthorName: "Hoare", NumberOfCopies: 1})

	matches, err := svc.Suggestions(ctx, "go")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Go Patterns", matches[0].BookName)

	// Author names match too.
	matches, err = svc.Suggestions(ctx, "hoare")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestAddUseByDate(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewBookService(store)
	book := store.SeedBook(model.Book{BookName: "Dated", NumberOfCopies: 1})

	dates, err := svc.AddUseByDate(ctx, book.ID, model.Today().AddDays(14))
	require.NoError(t, err)
	assert.Len(t, dates, 1)

	_, err = svc.AddUseByDate(ctx, "missing", model.Today())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
