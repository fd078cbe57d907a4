package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagekeep/pagekeep/internal/model"
)

// SubmissionRepository handles persistence for user book submissions.
// Each user has at most one submission header, created on first use.
type SubmissionRepository struct {
	db *pgxpool.Pool
}

// NewSubmissionRepository constructs a SubmissionRepository.
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// AddSubmissionItem records a proposed book under the user's submission.
// Proposing the same book twice returns ErrAlreadySubmitted.
func (r *SubmissionRepository) AddSubmissionItem(ctx context.Context, req model.SubmissionRequest) error {
	var submissionID string
	err := r.db.QueryRow(ctx,
		`INSERT INTO submissions (id, user_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id`,
		uuid.New().String(), req.UserID,
	).Scan(&submissionID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("ensure submission: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO submission_items
		   (id, submission_id, book_id, book_name, author_name, isbn_number,
		    published_date, book_image, description, submitted_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New().String(), submissionID, req.BookID, req.BookName, req.AuthorName,
		req.ISBNNumber, req.PublishedDate, req.BookImage, req.Description, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadySubmitted
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert submission item: %w", err)
	}
	return nil
}

// SubmissionByUser returns the user's submission with its items, or
// ErrNotFound when the user never submitted anything.
func (r *SubmissionRepository) SubmissionByUser(ctx context.Context, userID string) (*model.UserSubmission, error) {
	var submissionID string
	err := r.db.QueryRow(ctx,
		`SELECT id FROM submissions WHERE user_id = $1`, userID,
	).Scan(&submissionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, submission_id, book_id, COALESCE(book_name, ''), COALESCE(author_name, ''),
		        COALESCE(isbn_number, ''), published_date, COALESCE(book_image, ''),
		        COALESCE(description, ''), submitted_on
		 FROM submission_items
		 WHERE submission_id = $1
		 ORDER BY submitted_on`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list submission items: %w", err)
	}
	defer rows.Close()

	sub := &model.UserSubmission{UserID: userID, SubmissionID: submissionID}
	for rows.Next() {
		var item model.SubmissionItem
		if err := rows.Scan(&item.ID, &item.SubmissionID, &item.BookID, &item.BookName,
			&item.AuthorName, &item.ISBNNumber, &item.PublishedDate, &item.BookImage,
			&item.Description, &item.SubmittedOn); err != nil {
			return nil, fmt.Errorf("scan submission item: %w", err)
		}
		sub.Items = append(sub.Items, item)
	}
	return sub, rows.Err()
}
