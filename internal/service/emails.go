package service

import (
	"context"
	"time"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
)

// EmailLogStore is the persistence surface EmailService needs.
type EmailLogStore interface {
	RecordReminder(ctx context.Context, userID, bookID string, day time.Time) error
	HistoryForDay(ctx context.Context, day time.Time) ([]model.UserNotice, error)
}

// EmailService exposes the reminder dispatch log over HTTP: manual
// entries and the day's history. The reminder job writes to the same
// tables on its own.
type EmailService struct {
	emails EmailLogStore

	now func() time.Time
}

// NewEmailService constructs an EmailService.
func NewEmailService(emails EmailLogStore) *EmailService {
	return &EmailService{emails: emails, now: time.Now}
}

// RecordReminder manually records that a reminder went out today for
// the (user, book) pair.
func (s *EmailService) RecordReminder(ctx context.Context, req model.EmailRecordRequest) error {
	if req.UserID == "" || req.BookID == "" {
		return invalidf("userId and bookId are required")
	}
	return s.emails.RecordReminder(ctx, req.UserID, req.BookID, s.now().UTC())
}

// TodaysHistory returns today's dispatched reminders grouped by user,
// repository.ErrNotFound when none exist.
func (s *EmailService) TodaysHistory(ctx context.Context) ([]model.UserNotice, error) {
	notices, err := s.emails.HistoryForDay(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if len(notices) == 0 {
		return nil, repository.ErrNotFound
	}
	return notices, nil
}
