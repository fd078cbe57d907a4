package service

import (
	"context"
	"time"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
)

// ReservationStore is the persistence surface ReservationService needs.
// Reserve is expected to perform the capacity admission atomically.
type ReservationStore interface {
	Reserve(ctx context.Context, res model.Reservation) (*model.Reservation, error)
	CountByBook(ctx context.Context, bookID string) (int, error)
	ReservedByUser(ctx context.Context, userID string) ([]model.ReservedBook, error)
	AllReservations(ctx context.Context) ([]model.ReservationWithUser, error)
	ReservationsByBook(ctx context.Context, bookID string) ([]model.Reservation, error)
	MarkSubmitting(ctx context.Context, userID, bookID string) error
	DeleteReservation(ctx context.Context, userID, bookID string) error
	ClearFine(ctx context.Context, userID, bookID string) error
}

// ReservationService orchestrates reservation operations.
type ReservationService struct {
	reservations ReservationStore

	// now is injectable so date arithmetic is testable.
	now func() time.Time
}

// NewReservationService constructs a ReservationService.
func NewReservationService(reservations ReservationStore) *ReservationService {
	return &ReservationService{reservations: reservations, now: time.Now}
}

// Reserve validates the request and delegates the atomic admission to
// the store.
func (s *ReservationService) Reserve(ctx context.Context, req model.ReserveRequest) (*model.Reservation, error) {
	switch {
	case req.UserID == "" || req.BookID == "":
		return nil, invalidf("userId and bookId are required")
	case req.Fine < 0:
		return nil, invalidf("fine cannot be negative")
	case req.WillUseBy.IsZero():
		return nil, invalidf("willUseBy is required")
	}

	fine := req.Fine
	return s.reservations.Reserve(ctx, model.Reservation{
		UserID:      req.UserID,
		BookID:      req.BookID,
		Fine:        &fine,
		CreatedDate: model.NewDate(s.now().UTC()),
		WillUseBy:   req.WillUseBy,
	})
}

// CopiesReservedCount returns how many reservations a book has.
func (s *ReservationService) CopiesReservedCount(ctx context.Context, bookID string) (int, error) {
	if bookID == "" {
		return 0, invalidf("bookId is required")
	}
	return s.reservations.CountByBook(ctx, bookID)
}

// ReservedByUser returns the user's reservations with book details.
func (s *ReservationService) ReservedByUser(ctx context.Context, userID string) ([]model.ReservedBook, error) {
	if userID == "" {
		return nil, invalidf("userId is required")
	}
	reserved, err := s.reservations.ReservedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reserved == nil {
		reserved = []model.ReservedBook{}
	}
	return reserved, nil
}

// AllReservationsByUser groups every reservation under its owning user.
func (s *ReservationService) AllReservationsByUser(ctx context.Context) ([]model.UserReservations, error) {
	rows, err := s.reservations.AllReservations(ctx)
	if err != nil {
		return nil, err
	}

	grouped := []model.UserReservations{}
	byUser := make(map[string]int)
	for _, row := range rows {
		idx, ok := byUser[row.UserID]
		if !ok {
			idx = len(grouped)
			byUser[row.UserID] = idx
			grouped = append(grouped, model.UserReservations{
				UserID:   row.UserID,
				UserName: row.UserName,
				Email:    row.Email,
			})
		}
		grouped[idx].ReservedBooks = append(grouped[idx].ReservedBooks, model.ReservationSummary{
			BookID:       row.BookID,
			BookName:     row.BookName,
			Fine:         row.Fine,
			CreatedDate:  row.CreatedDate,
			WillUseBy:    row.WillUseBy,
			SubmitStatus: row.SubmitStatus,
		})
	}
	return grouped, nil
}

// ReservationsByBook returns the raw reservation rows for one book.
func (s *ReservationService) ReservationsByBook(ctx context.Context, bookID string) ([]model.Reservation, error) {
	if bookID == "" {
		return nil, invalidf("bookId is required")
	}
	return s.reservations.ReservationsByBook(ctx, bookID)
}

// NearestWillUseBy scans the book's reservations and returns the
// will-use-by date whose day-after falls soonest from now, ignoring
// dates already past. Ties keep the first reservation scanned. A book
// with no reservations at all is repository.ErrNotFound; the second
// return value is false when reservations exist but every hold has
// already lapsed.
func (s *ReservationService) NearestWillUseBy(ctx context.Context, bookID string) (model.Date, bool, error) {
	if bookID == "" {
		return model.Date{}, false, invalidf("bookId is required")
	}
	reservations, err := s.reservations.ReservationsByBook(ctx, bookID)
	if err != nil {
		return model.Date{}, false, err
	}
	if len(reservations) == 0 {
		return model.Date{}, false, repository.ErrNotFound
	}

	now := s.now().UTC()
	var nearest model.Date
	minDays := -1
	for _, res := range reservations {
		if res.WillUseBy.IsZero() {
			continue
		}
		// The borrower keeps the book through will_use_by; it frees up
		// the day after.
		freeOn := res.WillUseBy.AddDays(1)
		if freeOn.Before(now) {
			continue
		}
		days := int(freeOn.Sub(now).Hours()/24) + 1
		if minDays < 0 || days < minDays {
			minDays = days
			nearest = res.WillUseBy
		}
	}
	if minDays < 0 {
		return model.Date{}, false, nil
	}
	return nearest, true, nil
}

// RequestReturn marks the reservation as being returned by the user.
func (s *ReservationService) RequestReturn(ctx context.Context, req model.UserBookRequest) error {
	if req.UserID == "" || req.BookID == "" {
		return invalidf("userId and bookId are required")
	}
	return s.reservations.MarkSubmitting(ctx, req.UserID, req.BookID)
}

// RemoveReservation clears the reservation, completing a return.
func (s *ReservationService) RemoveReservation(ctx context.Context, req model.UserBookRequest) error {
	if req.UserID == "" || req.BookID == "" {
		return invalidf("userId and bookId are required")
	}
	return s.reservations.DeleteReservation(ctx, req.UserID, req.BookID)
}

// RemoveFine nulls out the fine on the reservation.
func (s *ReservationService) RemoveFine(ctx context.Context, userID, bookID string) error {
	if userID == "" || bookID == "" {
		return invalidf("userId and bookId are required")
	}
	return s.reservations.ClearFine(ctx, userID, bookID)
}
