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

func TestPublishLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewPublicationService(testutil.NewStore())

	pub, err := svc.Publish(ctx, model.PublicationRequest{
		BookName:    "Go Patterns",
		AuthorName:  "R. Pike",
		ISBNNumber:  "978-1234567890",
		Description: "essays",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pub.ID)

	pubs, err := svc.AllPublications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 1)

	require.NoError(t, svc.DeletePublication(ctx, pub.ID))
	assert.ErrorIs(t, svc.DeletePublication(ctx, pub.ID), repository.ErrNotFound)

	pubs, err = svc.AllPublications(ctx)
	require.NoError(t, err)
	assert.NotNil(t, pubs)
	assert.Empty(t, pubs)
}

func TestPublishValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewPublicationService(testutil.NewStore())

	var verr *ValidationError
	_, err := svc.Publish(ctx, model.PublicationRequest{AuthorName: "A", ISBNNumber: "1", Description: "d"})
	assert.ErrorAs(t, err, &verr)
}
