// Package testutil provides in-memory store and mailer fakes so the
// service, handler and reminder packages can be tested without a
// running PostgreSQL instance. The fakes return the same sentinel
// errors as the real repositories.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
)

// Store is an in-memory stand-in for every repository. Safe for
// concurrent use.
type Store struct {
	mu sync.Mutex

	users      map[string]*model.User
	librarians map[string]*model.Librarian
	books      map[string]*model.Book

	carts        map[string][]string // userID -> bookIDs, ordered
	reservations []model.Reservation
	useByDates   map[string][]model.UseByDate
	feedback     []model.Feedback
	submissions  map[string]*model.UserSubmission
	pubs         []model.Publication

	emailLogs map[string]string   // userID|day -> emailID
	notified  map[string][]string // emailID|day -> bookIDs
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*model.User),
		librarians:  make(map[string]*model.Librarian),
		books:       make(map[string]*model.Book),
		carts:       make(map[string][]string),
		useByDates:  make(map[string][]model.UseByDate),
		submissions: make(map[string]*model.UserSubmission),
		emailLogs:   make(map[string]string),
		notified:    make(map[string][]string),
	}
}

// ── accounts ─────────────────────────────────────────────────────────

func (s *Store) CreateUser(_ context.Context, name, email, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}
	u := &model.User{ID: uuid.NewString(), Name: name, Email: email, Password: passwordHash}
	s.users[u.ID] = u
	out := *u
	return &out, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *Store) CreateLibrarian(_ context.Context, name, email, passwordHash string) (*model.Librarian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.librarians {
		if l.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}
	l := &model.Librarian{ID: uuid.NewString(), Name: name, Email: email, Password: passwordHash}
	s.librarians[l.ID] = l
	out := *l
	return &out, nil
}

func (s *Store) LibrarianByEmail(_ context.Context, email string) (*model.Librarian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.librarians {
		if l.Email == email {
			out := *l
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) LibrarianByID(_ context.Context, id string) (*model.Librarian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.librarians[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *l
	return &out, nil
}

// SeedUser inserts a user directly, bypassing signup validation.
func (s *Store) SeedUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := u
	s.users[u.ID] = &cp
	return u
}

// ── books ────────────────────────────────────────────────────────────

func (s *Store) CreateBook(_ context.Context, req model.AddBookRequest) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &model.Book{
		ID:             uuid.NewString(),
		BookName:       req.BookName,
		AuthorName:     req.AuthorName,
		ISBNNumber:     req.ISBNNumber,
		PublishedDate:  req.PublishedDate,
		BookImage:      req.BookImage,
		Description:    req.Description,
		NumberOfCopies: req.NumberOfCopies,
		Fine:           req.Fine,
	}
	s.books[b.ID] = b
	out := *b
	return &out, nil
}

// SeedBook inserts a book directly, bypassing validation.
func (s *Store) SeedBook(b model.Book) model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cp := b
	s.books[b.ID] = &cp
	return b
}

func (s *Store) AllBooks(_ context.Context) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, *b)
	}
	return out, nil
}

func (s *Store) BookByID(_ context.Context, id string) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (s *Store) DeleteBook(_ context.Context, id string) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.books, id)
	out := *b
	return &out, nil
}

func (s *Store) AdjustCopies(_ context.Context, id string, delta int) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.NumberOfCopies+delta < 0 {
		return nil, repository.ErrNoCopiesLeft
	}
	b.NumberOfCopies += delta
	out := *b
	return &out, nil
}

func (s *Store) SearchBooks(_ context.Context, query string) ([]model.BookSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var out []model.BookSuggestion
	for _, b := range s.books {
		if strings.Contains(strings.ToLower(b.BookName), q) ||
			strings.Contains(strings.ToLower(b.AuthorName), q) {
			out = append(out, model.BookSuggestion{BookName: b.BookName})
		}
	}
	return out, nil
}

func (s *Store) AddUseByDate(_ context.Context, bookID string, willUseBy model.Date) ([]model.UseByDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[bookID]; !ok {
		return nil, repository.ErrNotFound
	}
	s.useByDates[bookID] = append(s.useByDates[bookID], model.UseByDate{
		ID:        uuid.NewString(),
		BookID:    bookID,
		WillUseBy: willUseBy,
	})
	return append([]model.UseByDate(nil), s.useByDates[bookID]...), nil
}

// ── carts ────────────────────────────────────────────────────────────

func (s *Store) AddCartItem(_ context.Context, userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[bookID]; !ok {
		return repository.ErrNotFound
	}
	for _, id := range s.carts[userID] {
		if id == bookID {
			return repository.ErrAlreadyInCart
		}
	}
	s.carts[userID] = append(s.carts[userID], bookID)
	return nil
}

func (s *Store) CartItems(_ context.Context, userID string) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var out []model.Book
	for _, id := range ids {
		if b, ok := s.books[id]; ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *Store) AllCartItems(_ context.Context) ([]model.UserCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.UserCart
	for userID, ids := range s.carts {
		cart := model.UserCart{UserID: userID, Items: []model.Book{}}
		for _, id := range ids {
			if b, ok := s.books[id]; ok {
				cart.Items = append(cart.Items, *b)
			}
		}
		out = append(out, cart)
	}
	return out, nil
}

func (s *Store) RemoveCartItem(_ context.Context, userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.carts[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for i, id := range ids {
		if id == bookID {
			s.carts[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) RemoveBookFromAllCarts(_ context.Context, bookID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for userID, ids := range s.carts {
		kept := ids[:0]
		for _, id := range ids {
			if id == bookID {
				removed++
			} else {
				kept = append(kept, id)
			}
		}
		s.carts[userID] = kept
	}
	return removed, nil
}
