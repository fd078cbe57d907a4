package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
)

// ── reservations ─────────────────────────────────────────────────────

// Reserve applies the same admission rules as the transactional
// repository: duplicate check first, then the capacity check.
func (s *Store) Reserve(_ context.Context, res model.Reservation) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[res.BookID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	count := 0
	for _, r := range s.reservations {
		if r.BookID == res.BookID {
			count++
			if r.UserID == res.UserID {
				return nil, repository.ErrAlreadyReserved
			}
		}
	}
	if count >= book.NumberOfCopies {
		return nil, repository.ErrAllCopiesReserved
	}
	res.ID = uuid.NewString()
	s.reservations = append(s.reservations, res)
	out := res
	return &out, nil
}

func (s *Store) CountByBook(_ context.Context, bookID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.reservations {
		if r.BookID == bookID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ReservedByUser(_ context.Context, userID string) ([]model.ReservedBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ReservedBook
	for _, r := range s.reservations {
		if r.UserID != userID {
			continue
		}
		book := s.books[r.BookID]
		if book == nil {
			continue
		}
		out = append(out, model.ReservedBook{
			UserID:         r.UserID,
			BookID:         r.BookID,
			Fine:           r.Fine,
			CreatedDate:    r.CreatedDate,
			WillUseBy:      r.WillUseBy,
			SubmitStatus:   r.SubmitStatus,
			BookName:       book.BookName,
			AuthorName:     book.AuthorName,
			Description:    book.Description,
			ISBNNumber:     book.ISBNNumber,
			PublishedDate:  book.PublishedDate,
			BookImage:      book.BookImage,
			NumberOfCopies: book.NumberOfCopies,
		})
	}
	return out, nil
}

func (s *Store) AllReservations(_ context.Context) ([]model.ReservationWithUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ReservationWithUser
	for _, r := range s.reservations {
		row := model.ReservationWithUser{
			UserID:       r.UserID,
			BookID:       r.BookID,
			Fine:         r.Fine,
			CreatedDate:  r.CreatedDate,
			WillUseBy:    r.WillUseBy,
			SubmitStatus: r.SubmitStatus,
		}
		if u := s.users[r.UserID]; u != nil {
			row.UserName = u.Name
			row.Email = u.Email
		}
		if b := s.books[r.BookID]; b != nil {
			row.BookName = b.BookName
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *Store) ReservationsByBook(_ context.Context, bookID string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) MarkSubmitting(_ context.Context, userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reservations {
		if r.UserID == userID && r.BookID == bookID {
			s.reservations[i].SubmitStatus = model.SubmitStatusSubmitting
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) DeleteReservation(_ context.Context, userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reservations {
		if r.UserID == userID && r.BookID == bookID {
			s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) ClearFine(_ context.Context, userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reservations {
		if r.UserID == userID && r.BookID == bookID {
			s.reservations[i].Fine = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

// ── feedback ─────────────────────────────────────────────────────────

func (s *Store) AddFeedback(_ context.Context, f model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[f.BookID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range s.feedback {
		if existing.BookID == f.BookID && existing.UserID == f.UserID {
			return repository.ErrDuplicateFeedback
		}
	}
	f.ID = uuid.NewString()
	s.feedback = append(s.feedback, f)
	return nil
}

func (s *Store) FeedbackByBook(_ context.Context, bookID string) ([]model.FeedbackEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.FeedbackEntry
	for _, f := range s.feedback {
		if f.BookID != bookID {
			continue
		}
		entry := model.FeedbackEntry{Feedback: f.Feedback, Rating: f.Rating}
		if u := s.users[f.UserID]; u != nil {
			entry.UserName = u.Name
		}
		out = append(out, entry)
	}
	return out, nil
}

// ── submissions ──────────────────────────────────────────────────────

func (s *Store) AddSubmissionItem(_ context.Context, req model.SubmissionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[req.UserID]
	if !ok {
		sub = &model.UserSubmission{UserID: req.UserID, SubmissionID: uuid.NewString()}
		s.submissions[req.UserID] = sub
	}
	for _, item := range sub.Items {
		if item.BookID == req.BookID {
			return repository.ErrAlreadySubmitted
		}
	}
	sub.Items = append(sub.Items, model.SubmissionItem{
		ID:            uuid.NewString(),
		SubmissionID:  sub.SubmissionID,
		BookID:        req.BookID,
		BookName:      req.BookName,
		AuthorName:    req.AuthorName,
		ISBNNumber:    req.ISBNNumber,
		PublishedDate: req.PublishedDate,
		BookImage:     req.BookImage,
		Description:   req.Description,
	})
	return nil
}

func (s *Store) SubmissionByUser(_ context.Context, userID string) (*model.UserSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *sub
	out.Items = append([]model.SubmissionItem(nil), sub.Items...)
	return &out, nil
}

// ── publications ─────────────────────────────────────────────────────

func (s *Store) CreatePublication(_ context.Context, req model.PublicationRequest) (*model.Publication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Publication{
		ID:            uuid.NewString(),
		BookName:      req.BookName,
		AuthorName:    req.AuthorName,
		ISBNNumber:    req.ISBNNumber,
		PublishedDate: req.PublishedDate,
		BookImage:     req.BookImage,
		Description:   req.Description,
		CreatedAt:     time.Now(),
	}
	s.pubs = append(s.pubs, p)
	out := p
	return &out, nil
}

func (s *Store) AllPublications(_ context.Context) ([]model.Publication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Publication(nil), s.pubs...), nil
}

func (s *Store) DeletePublication(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pubs {
		if p.ID == id {
			s.pubs = append(s.pubs[:i], s.pubs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
