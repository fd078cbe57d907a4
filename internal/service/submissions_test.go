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

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	svc := NewSubmissionService(testutil.NewStore())

	req := model.SubmissionRequest{
		UserID:   "u1",
		BookID:   "b1",
		BookName: "Go Patterns",
	}
	require.NoError(t, svc.Submit(ctx, req))

	// The same book cannot be submitted twice by one user.
	assert.ErrorIs(t, svc.Submit(ctx, req), repository.ErrAlreadySubmitted)

	// A second book lands under the same submission header.
	req.BookID = "b2"
	req.BookName = "Rust Atlas"
	require.NoError(t, svc.Submit(ctx, req))

	sub, err := svc.SubmissionByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", sub.UserID)
	assert.Len(t, sub.Items, 2)
}

func TestSubmissionByUserNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewSubmissionService(testutil.NewStore())

	_, err := svc.SubmissionByUser(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewSubmissionService(testutil.NewStore())

	var verr *ValidationError
	assert.ErrorAs(t, svc.Submit(ctx, model.SubmissionRequest{BookID: "b1", BookName: "X"}), &verr)
	assert.ErrorAs(t, svc.Submit(ctx, model.SubmissionRequest{UserID: "u1", BookID: "b1"}), &verr)
}
