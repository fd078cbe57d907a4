package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagekeep/pagekeep/internal/model"
)

// EmailRepository handles the reminder dispatch log: a header row per
// (user, day) and a detail row per (header, book, day). A detail row's
// existence is the sole guard against re-notifying the same overdue
// book on the same day.
type EmailRepository struct {
	db *pgxpool.Pool
}

// NewEmailRepository constructs an EmailRepository.
func NewEmailRepository(db *pgxpool.Pool) *EmailRepository {
	return &EmailRepository{db: db}
}

// OverdueReservations returns reservations whose will_use_by is
// strictly before day, grouped by owning user.
func (r *EmailRepository) OverdueReservations(ctx context.Context, day time.Time) ([]model.UserNotice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email, b.id, b.book_name
		 FROM reserved_books rb
		 JOIN users u ON u.id = rb.user_id
		 JOIN books b ON b.id = rb.book_id
		 WHERE rb.will_use_by < $1
		 ORDER BY u.id, b.book_name`,
		model.NewDate(day),
	)
	if err != nil {
		return nil, fmt.Errorf("select overdue reservations: %w", err)
	}
	defer rows.Close()
	return groupNotices(rows)
}

// EnsureEmailLog upserts the (user, day) header row and returns its id.
func (r *EmailRepository) EnsureEmailLog(ctx context.Context, userID string, day time.Time) (string, error) {
	var id string
	err := r.db.QueryRow(ctx,
		`INSERT INTO emails (id, user_id, created_date) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, created_date) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id`,
		uuid.New().String(), userID, model.NewDate(day),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("ensure email log: %w", err)
	}
	return id, nil
}

// NotifiedBookIDs returns the book ids already recorded under the
// header for the given day.
func (r *EmailRepository) NotifiedBookIDs(ctx context.Context, emailID string, day time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT book_id FROM email_items WHERE email_id = $1 AND created_date = $2`,
		emailID, model.NewDate(day),
	)
	if err != nil {
		return nil, fmt.Errorf("select notified books: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan notified book: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkNotified inserts one detail row per book for the day. Duplicates
// are suppressed by the (email, book, day) unique index, so re-running
// the same day is idempotent.
func (r *EmailRepository) MarkNotified(ctx context.Context, emailID string, bookIDs []string, day time.Time) error {
	for _, bookID := range bookIDs {
		_, err := r.db.Exec(ctx,
			`INSERT INTO email_items (id, email_id, book_id, created_date)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (email_id, book_id, created_date) DO NOTHING`,
			uuid.New().String(), emailID, bookID, model.NewDate(day),
		)
		if err != nil {
			return fmt.Errorf("insert email item: %w", err)
		}
	}
	return nil
}

// RecordReminder manually records a sent reminder for today's
// (user, book) pair, ErrAlreadyRecorded when it exists.
func (r *EmailRepository) RecordReminder(ctx context.Context, userID, bookID string, day time.Time) error {
	emailID, err := r.EnsureEmailLog(ctx, userID, day)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO email_items (id, email_id, book_id, created_date)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), emailID, bookID, model.NewDate(day),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRecorded
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert email item: %w", err)
	}
	return nil
}

// HistoryForDay returns the reminders dispatched on day, grouped by user.
func (r *EmailRepository) HistoryForDay(ctx context.Context, day time.Time) ([]model.UserNotice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email, b.id, b.book_name
		 FROM emails e
		 JOIN email_items ei ON ei.email_id = e.id
		 JOIN users u ON u.id = e.user_id
		 JOIN books b ON b.id = ei.book_id
		 WHERE e.created_date = $1
		 ORDER BY u.id, b.book_name`,
		model.NewDate(day),
	)
	if err != nil {
		return nil, fmt.Errorf("select email history: %w", err)
	}
	defer rows.Close()
	return groupNotices(rows)
}

// groupNotices folds (user, book) rows ordered by user into one notice
// per user.
func groupNotices(rows pgx.Rows) ([]model.UserNotice, error) {
	var notices []model.UserNotice
	for rows.Next() {
		var userID, userName, userEmail string
		var book model.OverdueBook
		if err := rows.Scan(&userID, &userName, &userEmail, &book.BookID, &book.BookName); err != nil {
			return nil, fmt.Errorf("scan notice row: %w", err)
		}
		if n := len(notices); n == 0 || notices[n-1].UserID != userID {
			notices = append(notices, model.UserNotice{
				UserID:    userID,
				UserName:  userName,
				UserEmail: userEmail,
			})
		}
		last := &notices[len(notices)-1]
		last.Books = append(last.Books, book)
	}
	return notices, rows.Err()
}
