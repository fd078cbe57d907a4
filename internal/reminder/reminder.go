// Package reminder implements the overdue-notice batch job. On a fixed
// interval it scans for reservations past their will-use-by date and
// mails each affected user once per (user, book, day).
package reminder

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/pagekeep/pagekeep/internal/mailer"
	"github.com/pagekeep/pagekeep/internal/model"
)

// Store is the persistence surface the job needs. The production
// implementation is repository.EmailRepository.
type Store interface {
	OverdueReservations(ctx context.Context, day time.Time) ([]model.UserNotice, error)
	EnsureEmailLog(ctx context.Context, userID string, day time.Time) (string, error)
	NotifiedBookIDs(ctx context.Context, emailID string, day time.Time) ([]string, error)
	MarkNotified(ctx context.Context, emailID string, bookIDs []string, day time.Time) error
}

// Job is the periodic overdue reminder.
//
// A single in-process busy flag prevents overlapping ticks. That guard
// only holds within one running instance; deploy exactly one copy of
// the service. The (email, book, day) unique index still blocks
// duplicate log rows if that constraint is ever violated, though a
// duplicate mail could slip out.
type Job struct {
	store    Store
	mailer   mailer.Mailer
	interval time.Duration

	busy atomic.Bool
	now  func() time.Time
}

// New constructs a reminder Job.
func New(store Store, m mailer.Mailer, interval time.Duration) *Job {
	return &Job{store: store, mailer: m, interval: interval, now: time.Now}
}

// Run ticks until ctx is cancelled. Errors inside a tick are logged and
// swallowed; the next tick retries naturally.
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Printf("reminder job running every %s", j.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("reminder job stopped")
			return
		case <-ticker.C:
			j.tick(ctx)
		}
	}
}

// tick runs one scan unless one is already in flight.
func (j *Job) tick(ctx context.Context) {
	if !j.busy.CompareAndSwap(false, true) {
		return
	}
	defer j.busy.Store(false)

	sent, err := j.RunOnce(ctx)
	if err != nil {
		log.Printf("reminder tick: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("reminder tick: sent %d notice(s)", sent)
	}
}

// RunOnce performs one overdue scan and returns how many notices went
// out. A failure for one user skips the rest of that user's books but
// not other users; already-processed users keep their log rows.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	today := j.now().UTC()

	overdue, err := j.store.OverdueReservations(ctx, today)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, user := range overdue {
		mailed, err := j.notifyUser(ctx, user, today)
		if err != nil {
			log.Printf("reminder: notify %s: %v", user.UserID, err)
			continue
		}
		if mailed {
			sent++
		}
	}
	return sent, nil
}

// notifyUser mails one user their not-yet-notified overdue books and
// records the dispatch. Books already notified today are subtracted
// first, so a same-day re-run sends nothing.
func (j *Job) notifyUser(ctx context.Context, user model.UserNotice, today time.Time) (bool, error) {
	emailID, err := j.store.EnsureEmailLog(ctx, user.UserID, today)
	if err != nil {
		return false, err
	}

	notified, err := j.store.NotifiedBookIDs(ctx, emailID, today)
	if err != nil {
		return false, err
	}
	seen := make(map[string]bool, len(notified))
	for _, id := range notified {
		seen[id] = true
	}

	var unsent []model.OverdueBook
	for _, book := range user.Books {
		if !seen[book.BookID] {
			unsent = append(unsent, book)
		}
	}
	if len(unsent) == 0 {
		return false, nil
	}

	if err := j.mailer.SendOverdueReminder(ctx, user.UserEmail, user.UserName, unsent); err != nil {
		return false, err
	}

	ids := make([]string, len(unsent))
	for i, book := range unsent {
		ids[i] = book.BookID
	}
	return true, j.store.MarkNotified(ctx, emailID, ids, today)
}
