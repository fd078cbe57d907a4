package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagekeep/pagekeep/internal/model"
)

// FeedbackRepository handles persistence for book feedback.
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// AddFeedback inserts one review per (book, user). ErrNotFound when the
// book is gone, ErrDuplicateFeedback when the user already reviewed it.
func (r *FeedbackRepository) AddFeedback(ctx context.Context, f model.Feedback) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO feedbacks (id, book_id, user_id, rating, feedback, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), f.BookID, f.UserID, f.Rating, f.Feedback, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFeedback
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// FeedbackByBook returns the book's feedback with each author's name.
func (r *FeedbackRepository) FeedbackByBook(ctx context.Context, bookID string) ([]model.FeedbackEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.name, COALESCE(f.feedback, ''), f.rating
		 FROM feedbacks f
		 JOIN users u ON u.id = f.user_id
		 WHERE f.book_id = $1
		 ORDER BY f.created_at DESC`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var entries []model.FeedbackEntry
	for rows.Next() {
		var e model.FeedbackEntry
		if err := rows.Scan(&e.UserName, &e.Feedback, &e.Rating); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
