package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
)

func dayKey(day time.Time) string {
	return day.UTC().Format(model.DateLayout)
}

// ── reminder job store ───────────────────────────────────────────────

func (s *Store) OverdueReservations(_ context.Context, day time.Time) ([]model.UserNotice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := model.NewDate(day)
	byUser := make(map[string]*model.UserNotice)
	var order []string
	for _, r := range s.reservations {
		if !r.WillUseBy.Before(cutoff.Time) {
			continue
		}
		notice, ok := byUser[r.UserID]
		if !ok {
			notice = &model.UserNotice{UserID: r.UserID}
			if u := s.users[r.UserID]; u != nil {
				notice.UserName = u.Name
				notice.UserEmail = u.Email
			}
			byUser[r.UserID] = notice
			order = append(order, r.UserID)
		}
		book := model.OverdueBook{BookID: r.BookID}
		if b := s.books[r.BookID]; b != nil {
			book.BookName = b.BookName
		}
		notice.Books = append(notice.Books, book)
	}
	sort.Strings(order)
	out := make([]model.UserNotice, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out, nil
}

func (s *Store) EnsureEmailLog(_ context.Context, userID string, day time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "|" + dayKey(day)
	if id, ok := s.emailLogs[key]; ok {
		return id, nil
	}
	id := uuid.NewString()
	s.emailLogs[key] = id
	return id, nil
}

func (s *Store) NotifiedBookIDs(_ context.Context, emailID string, day time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notified[emailID+"|"+dayKey(day)]...), nil
}

func (s *Store) MarkNotified(_ context.Context, emailID string, bookIDs []string, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailID + "|" + dayKey(day)
	for _, id := range bookIDs {
		dup := false
		for _, have := range s.notified[key] {
			if have == id {
				dup = true
				break
			}
		}
		if !dup {
			s.notified[key] = append(s.notified[key], id)
		}
	}
	return nil
}

// ── email history ────────────────────────────────────────────────────

func (s *Store) RecordReminder(ctx context.Context, userID, bookID string, day time.Time) error {
	emailID, err := s.EnsureEmailLog(ctx, userID, day)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailID + "|" + dayKey(day)
	for _, have := range s.notified[key] {
		if have == bookID {
			return repository.ErrAlreadyRecorded
		}
	}
	s.notified[key] = append(s.notified[key], bookID)
	return nil
}

func (s *Store) HistoryForDay(_ context.Context, day time.Time) ([]model.UserNotice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suffix := "|" + dayKey(day)
	var out []model.UserNotice
	for key, emailID := range s.emailLogs {
		if len(key) < len(suffix) || key[len(key)-len(suffix):] != suffix {
			continue
		}
		userID := key[:len(key)-len(suffix)]
		notice := model.UserNotice{UserID: userID}
		if u := s.users[userID]; u != nil {
			notice.UserName = u.Name
			notice.UserEmail = u.Email
		}
		for _, bookID := range s.notified[emailID+suffix] {
			book := model.OverdueBook{BookID: bookID}
			if b := s.books[bookID]; b != nil {
				book.BookName = b.BookName
			}
			notice.Books = append(notice.Books, book)
		}
		if len(notice.Books) > 0 {
			out = append(out, notice)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
