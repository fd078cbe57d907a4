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

func newReservationFixture(t *testing.T, copies int) (*ReservationService, *testutil.Store, model.Book) {
	t.Helper()
	store := testutil.NewStore()
	book := store.SeedBook(model.Book{BookName: "Go Patterns", AuthorName: "R. Pike", NumberOfCopies: copies})
	return NewReservationService(store), store, book
}

func reserveReq(userID, bookID string, willUseBy model.Date) model.ReserveRequest {
	return model.ReserveRequest{UserID: userID, BookID: bookID, Fine: 5, WillUseBy: willUseBy}
}

func TestReserveCapacity(t *testing.T) {
	ctx := context.Background()
	svc, _, book := newReservationFixture(t, 3)
	due := model.Today().AddDays(7)

	for _, userID := range []string{"u1", "u2", "u3"} {
		res, err := svc.Reserve(ctx, reserveReq(userID, book.ID, due))
		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
	}

	// All copies are held; the fourth reader is turned away.
	_, err := svc.Reserve(ctx, reserveReq("u4", book.ID, due))
	assert.ErrorIs(t, err, repository.ErrAllCopiesReserved)

	count, err := svc.CopiesReservedCount(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReserveDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, book := newReservationFixture(t, 3)
	due := model.Today().AddDays(7)

	_, err := svc.Reserve(ctx, reserveReq("u1", book.ID, due))
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, reserveReq("u1", book.ID, due))
	assert.ErrorIs(t, err, repository.ErrAlreadyReserved)
}

func TestReserveValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, book := newReservationFixture(t, 1)

	var verr *ValidationError
	_, err := svc.Reserve(ctx, model.ReserveRequest{BookID: book.ID, WillUseBy: model.Today()})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Reserve(ctx, model.ReserveRequest{UserID: "u1", BookID: book.ID})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Reserve(ctx, model.ReserveRequest{UserID: "u1", BookID: book.ID, Fine: -1, WillUseBy: model.Today()})
	assert.ErrorAs(t, err, &verr)
}

func TestNearestWillUseBy(t *testing.T) {
	ctx := context.Background()
	svc, _, book := newReservationFixture(t, 5)

	// Freeze the clock mid-day so "the day after an expired hold" is
	// already in the past.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	today := model.NewDate(now)

	for _, res := range []struct {
		user string
		due  model.Date
	}{
		{"u1", today.AddDays(-1)}, // lapsed, frees today: ignored
		{"u2", today.AddDays(5)},
		{"u3", today.AddDays(2)},
	} {
		_, err := svc.Reserve(ctx, reserveReq(res.user, book.ID, res.due))
		require.NoError(t, err)
	}

	nearest, ok, err := svc.NearestWillUseBy(ctx, book.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, today.AddDays(2).String(), nearest.String())
}

func TestNearestWillUseByTies(t *testing.T) {
	ctx := context.Background()
	svc, _, book := newReservationFixture(t, 5)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	today := model.NewDate(now)

	// Two holds share the minimal offset; the first row scanned wins
	// and a later equal date never overwrites it.
	for _, res := range []struct {
		user string
		due  model.Date
	}{
		{"u1", today.AddDays(2)},
		{"u2", today.AddDays(2)},
		{"u3", today.AddDays(5)},
	} {
		_, err := svc.Reserve(ctx, reserveReq(res.user, book.ID, res.due))
		require.NoError(t, err)
	}

	nearest, ok, err := svc.NearestWillUseBy(ctx, book.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, today.AddDays(2).String(), nearest.String())
}

func TestNearestWillUseByNoneQualify(t *testing.T) {
	ctx := context.Background()
	svc, _, book := newReservationFixture(t, 5)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	today := model.NewDate(now)

	_, err := svc.Reserve(ctx, reserveReq("u1", book.ID, today.AddDays(-3)))
	require.NoError(t, err)

	// Reservations exist but all have lapsed: no date, no error.
	_, ok, err := svc.NearestWillUseBy(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNearestWillUseByNoReservations(t *testing.T) {
	ctx := context.Background()
	svc, _, book := newReservationFixture(t, 5)

	_, _, err := svc.NearestWillUseBy(ctx, book.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, _, err = svc.NearestWillUseBy(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, book := newReservationFixture(t, 1)
	due := model.Today().AddDays(7)

	_, err := svc.Reserve(ctx, reserveReq("u1", book.ID, due))
	require.NoError(t, err)

	// User asks to return; the row stays but is flagged.
	require.NoError(t, svc.RequestReturn(ctx, model.UserBookRequest{UserID: "u1", BookID: book.ID}))
	rows, err := svc.ReservationsByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.SubmitStatusSubmitting, rows[0].SubmitStatus)

	// Librarian clears the fine, then completes the return.
	require.NoError(t, svc.RemoveFine(ctx, "u1", book.ID))
	rows, err = svc.ReservationsByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, rows[0].Fine)

	require.NoError(t, svc.RemoveReservation(ctx, model.UserBookRequest{UserID: "u1", BookID: book.ID}))

	// The freed copy admits the next reader.
	_, err = svc.Reserve(ctx, reserveReq("u2", book.ID, due))
	assert.NoError(t, err)
}

func TestAllReservationsGroupedByUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewReservationService(store)

	u1 := store.SeedUser(model.User{Name: "Asha", Email: "asha@example.com"})
	u2 := store.SeedUser(model.User{Name: "Ravi", Email: "ravi@example.com"})
	b1 := store.SeedBook(model.Book{BookName: "One", NumberOfCopies: 2})
	b2 := store.SeedBook(model.Book{BookName: "Two", NumberOfCopies: 2})
	due := model.Today().AddDays(7)

	for _, pair := range []struct{ user, book string }{
		{u1.ID, b1.ID}, {u1.ID, b2.ID}, {u2.ID, b1.ID},
	} {
		_, err := svc.Reserve(ctx, reserveReq(pair.user, pair.book, due))
		require.NoError(t, err)
	}

	grouped, err := svc.AllReservationsByUser(ctx)
	require.NoError(t, err)
	require.Len(t, grouped, 2)

	byUser := make(map[string]model.UserReservations, len(grouped))
	for _, g := range grouped {
		byUser[g.UserID] = g
	}
	assert.Len(t, byUser[u1.ID].ReservedBooks, 2)
	assert.Len(t, byUser[u2.ID].ReservedBooks, 1)
	assert.Equal(t, "Asha", byUser[u1.ID].UserName)
}
