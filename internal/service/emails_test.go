package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
	"github.com/pagekeep/pagekeep/internal/testutil"
)

func TestRecordReminder(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewEmailService(store)
	user := store.SeedUser(model.User{Name: "Asha", Email: "asha@example.com"})
	book := store.SeedBook(model.Book{BookName: "Go Patterns", NumberOfCopies: 1})

	req := model.EmailRecordRequest{UserID: user.ID, BookID: book.ID}
	require.NoError(t, svc.RecordReminder(ctx, req))

	// Same (user, book) on the same day is a conflict.
	assert.ErrorIs(t, svc.RecordReminder(ctx, req), repository.ErrAlreadyRecorded)

	notices, err := svc.TodaysHistory(ctx)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, user.ID, notices[0].UserID)
	require.Len(t, notices[0].Books, 1)
	assert.Equal(t, "Go Patterns", notices[0].Books[0].BookName)
}

func TestTodaysHistoryRollsOverAtMidnight(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewEmailService(store)
	user := store.SeedUser(model.User{Name: "Asha"})

	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	require.NoError(t, svc.RecordReminder(ctx, model.EmailRecordRequest{UserID: user.ID, BookID: "b1"}))

	// The next day the log starts empty and the pair can recur.
	svc.now = func() time.Time { return day.AddDate(0, 0, 1) }
	_, err := svc.TodaysHistory(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, svc.RecordReminder(ctx, model.EmailRecordRequest{UserID: user.ID, BookID: "b1"}))
}

func TestTodaysHistoryEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewEmailService(testutil.NewStore())

	_, err := svc.TodaysHistory(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
