package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagekeep/pagekeep/internal/model"
)

// ReservationRepository handles persistence for reservations.
type ReservationRepository struct {
	db *pgxpool.Pool
}

// NewReservationRepository constructs a ReservationRepository.
func NewReservationRepository(db *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Reserve performs a concurrency-safe admission inside a transaction.
//
// The naive read-then-insert approach races: two requests can both read
// a reservation count below the copy ceiling before either inserts,
// overbooking the last copy. SELECT ... FOR UPDATE takes a row-level
// exclusive lock on the book the moment the transaction reads it, so
// concurrent admissions for the same book serialize and the ceiling
// holds. The (user_id, book_id) unique index independently rules out
// duplicate reservations.
func (r *ReservationRepository) Reserve(ctx context.Context, res model.Reservation) (*model.Reservation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the book row; admissions for this book now run one at a time.
	var copies int
	err = tx.QueryRow(ctx,
		`SELECT number_of_copies FROM books WHERE id = $1 FOR UPDATE`,
		res.BookID,
	).Scan(&copies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock book row: %w", err)
	}

	var existing int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM reserved_books WHERE user_id = $1 AND book_id = $2`,
		res.UserID, res.BookID,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("check duplicate reservation: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyReserved
	}

	var reserved int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM reserved_books WHERE book_id = $1`,
		res.BookID,
	).Scan(&reserved)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}
	if reserved >= copies {
		return nil, ErrAllCopiesReserved
	}

	res.ID = uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO reserved_books (id, user_id, book_id, fine, created_date, will_use_by)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.UserID, res.BookID, res.Fine, res.CreatedDate, res.WillUseBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &res, nil
}

// CountByBook returns how many reservations a book currently has.
func (r *ReservationRepository) CountByBook(ctx context.Context, bookID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reserved_books WHERE book_id = $1`, bookID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return count, nil
}

// ReservedByUser returns the user's reservations joined with book details.
func (r *ReservationRepository) ReservedByUser(ctx context.Context, userID string) ([]model.ReservedBook, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rb.user_id, rb.book_id, rb.fine, rb.created_date, rb.will_use_by,
		        COALESCE(rb.submit_status, ''),
		        b.book_name, b.author_name, COALESCE(b.description, ''), b.isbn_number,
		        b.published_date, COALESCE(b.book_image, ''), b.number_of_copies
		 FROM reserved_books rb
		 JOIN books b ON b.id = rb.book_id
		 WHERE rb.user_id = $1
		 ORDER BY rb.created_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reserved books: %w", err)
	}
	defer rows.Close()

	var reserved []model.ReservedBook
	for rows.Next() {
		var rb model.ReservedBook
		if err := rows.Scan(&rb.UserID, &rb.BookID, &rb.Fine, &rb.CreatedDate, &rb.WillUseBy,
			&rb.SubmitStatus, &rb.BookName, &rb.AuthorName, &rb.Description, &rb.ISBNNumber,
			&rb.PublishedDate, &rb.BookImage, &rb.NumberOfCopies); err != nil {
			return nil, fmt.Errorf("scan reserved book: %w", err)
		}
		reserved = append(reserved, rb)
	}
	return reserved, rows.Err()
}

// AllReservations returns every reservation joined with its owner,
// ordered by user then newest first.
func (r *ReservationRepository) AllReservations(ctx context.Context) ([]model.ReservationWithUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email, b.id, b.book_name,
		        rb.fine, rb.created_date, rb.will_use_by, COALESCE(rb.submit_status, '')
		 FROM reserved_books rb
		 JOIN users u ON u.id = rb.user_id
		 JOIN books b ON b.id = rb.book_id
		 ORDER BY u.id, rb.created_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list all reservations: %w", err)
	}
	defer rows.Close()

	var all []model.ReservationWithUser
	for rows.Next() {
		var row model.ReservationWithUser
		if err := rows.Scan(&row.UserID, &row.UserName, &row.Email, &row.BookID, &row.BookName,
			&row.Fine, &row.CreatedDate, &row.WillUseBy, &row.SubmitStatus); err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		all = append(all, row)
	}
	return all, rows.Err()
}

// ReservationsByBook returns the raw reservation rows for one book.
func (r *ReservationRepository) ReservationsByBook(ctx context.Context, bookID string) ([]model.Reservation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, book_id, fine, created_date, will_use_by, COALESCE(submit_status, '')
		 FROM reserved_books
		 WHERE book_id = $1
		 ORDER BY created_date`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reservations by book: %w", err)
	}
	defer rows.Close()

	var reservations []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.BookID, &res.Fine,
			&res.CreatedDate, &res.WillUseBy, &res.SubmitStatus); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// MarkSubmitting records the user's return request on a reservation.
func (r *ReservationRepository) MarkSubmitting(ctx context.Context, userID, bookID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reserved_books SET submit_status = $3 WHERE user_id = $1 AND book_id = $2`,
		userID, bookID, model.SubmitStatusSubmitting,
	)
	if err != nil {
		return fmt.Errorf("mark submitting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReservation clears a reservation, the librarian accepting a return.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, userID, bookID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM reserved_books WHERE user_id = $1 AND book_id = $2`,
		userID, bookID,
	)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearFine nulls out the fine on a reservation.
func (r *ReservationRepository) ClearFine(ctx context.Context, userID, bookID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reserved_books SET fine = NULL WHERE user_id = $1 AND book_id = $2`,
		userID, bookID,
	)
	if err != nil {
		return fmt.Errorf("clear fine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
