package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/testutil"
)

func overdueFixture(t *testing.T) (*Job, *testutil.Store, *testutil.Mailer) {
	t.Helper()
	store := testutil.NewStore()
	mail := testutil.NewMailer()
	job := New(store, mail, time.Hour)
	job.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }
	return job, store, mail
}

func seedOverdue(t *testing.T, store *testutil.Store, svcNow time.Time, email string, dueOffsets ...int) model.User {
	t.Helper()
	user := store.SeedUser(model.User{Name: "Reader " + email, Email: email})
	today := model.NewDate(svcNow)
	for i, offset := range dueOffsets {
		book := store.SeedBook(model.Book{BookName: email + " book", NumberOfCopies: 1 + i})
		_, err := store.Reserve(context.Background(), model.Reservation{
			UserID:    user.ID,
			BookID:    book.ID,
			WillUseBy: today.AddDays(offset),
		})
		require.NoError(t, err)
	}
	return user
}

func TestRunOnceMailsOverdueUsers(t *testing.T) {
	job, store, mail := overdueFixture(t)
	now := job.now()

	seedOverdue(t, store, now, "late@example.com", -2)
	seedOverdue(t, store, now, "ontime@example.com", 3)

	sent, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	mails := mail.Sent()
	require.Len(t, mails, 1)
	assert.Equal(t, "late@example.com", mails[0].To)
	assert.Len(t, mails[0].Books, 1)
}

func TestRunOnceIsIdempotentPerDay(t *testing.T) {
	job, store, mail := overdueFixture(t)
	seedOverdue(t, store, job.now(), "late@example.com", -2, -5)

	sent, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// Same day, second run: everything is already logged.
	sent, err = job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, mail.Sent(), 1)

	// The next day the books are still overdue and get a fresh notice.
	job.now = func() time.Time { return time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC) }
	sent, err = job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestRunOnceNewOverdueBookSameDay(t *testing.T) {
	job, store, mail := overdueFixture(t)
	now := job.now()
	user := seedOverdue(t, store, now, "late@example.com", -2)

	_, err := job.RunOnce(context.Background())
	require.NoError(t, err)

	// Another reservation lapses later the same day: only the new book
	// is mailed.
	extra := store.SeedBook(model.Book{BookName: "newly late", NumberOfCopies: 1})
	_, err = store.Reserve(context.Background(), model.Reservation{
		UserID:    user.ID,
		BookID:    extra.ID,
		WillUseBy: model.NewDate(now).AddDays(-1),
	})
	require.NoError(t, err)

	sent, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	mails := mail.Sent()
	require.Len(t, mails, 2)
	require.Len(t, mails[1].Books, 1)
	assert.Equal(t, extra.ID, mails[1].Books[0].BookID)
}

func TestRunOnceOneFailureDoesNotBlockOthers(t *testing.T) {
	job, store, mail := overdueFixture(t)
	now := job.now()
	seedOverdue(t, store, now, "broken@example.com", -2)
	seedOverdue(t, store, now, "working@example.com", -2)

	mail.Fail = map[string]error{"broken@example.com": errors.New("smtp 550")}

	sent, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	mails := mail.Sent()
	require.Len(t, mails, 1)
	assert.Equal(t, "working@example.com", mails[0].To)

	// The failed user was not logged, so the retry reaches them.
	mail.Fail = nil
	sent, err = job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestTickGuardSkipsOverlap(t *testing.T) {
	job, store, mail := overdueFixture(t)
	seedOverdue(t, store, job.now(), "late@example.com", -2)

	job.busy.Store(true)
	job.tick(context.Background())
	assert.Empty(t, mail.Sent())

	job.busy.Store(false)
	job.tick(context.Background())
	assert.Len(t, mail.Sent(), 1)
}
