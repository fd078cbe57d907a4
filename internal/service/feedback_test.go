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

func TestSendFeedback(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewFeedbackService(store)
	user := store.SeedUser(model.User{Name: "Asha"})
	book := store.SeedBook(model.Book{BookName: "Go Patterns", NumberOfCopies: 1})

	req := model.FeedbackRequest{BookID: book.ID, UserID: user.ID, Feedback: "great read", Rating: 5}
	require.NoError(t, svc.SendFeedback(ctx, req))

	// One review per (user, book).
	assert.ErrorIs(t, svc.SendFeedback(ctx, req), repository.ErrDuplicateFeedback)

	entries, err := svc.FeedbackByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Asha", entries[0].UserName)
	assert.Equal(t, 5, entries[0].Rating)
}

func TestSendFeedbackValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewFeedbackService(testutil.NewStore())

	tests := []struct {
		name string
		req  model.FeedbackRequest
	}{
		{"missing ids", model.FeedbackRequest{Feedback: "x", Rating: 3}},
		{"blank feedback", model.FeedbackRequest{BookID: "b", UserID: "u", Feedback: "   ", Rating: 3}},
		{"rating too low", model.FeedbackRequest{BookID: "b", UserID: "u", Feedback: "x", Rating: 0}},
		{"rating too high", model.FeedbackRequest{BookID: "b", UserID: "u", Feedback: "x", Rating: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			assert.ErrorAs(t, svc.SendFeedback(ctx, tt.req), &verr)
		})
	}
}

func TestFeedbackByBookEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewFeedbackService(testutil.NewStore())

	entries, err := svc.FeedbackByBook(ctx, "any")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
