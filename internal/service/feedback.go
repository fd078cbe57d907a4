package service

import (
	"context"
	"strings"

	"github.com/pagekeep/pagekeep/internal/model"
)

// FeedbackStore is the persistence surface FeedbackService needs.
type FeedbackStore interface {
	AddFeedback(ctx context.Context, f model.Feedback) error
	FeedbackByBook(ctx context.Context, bookID string) ([]model.FeedbackEntry, error)
}

// FeedbackService orchestrates book feedback.
type FeedbackService struct {
	feedback FeedbackStore
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(feedback FeedbackStore) *FeedbackService {
	return &FeedbackService{feedback: feedback}
}

// SendFeedback validates and records one review per (user, book).
func (s *FeedbackService) SendFeedback(ctx context.Context, req model.FeedbackRequest) error {
	req.Feedback = strings.TrimSpace(req.Feedback)
	switch {
	case req.BookID == "" || req.UserID == "":
		return invalidf("bookId and userId are required")
	case req.Feedback == "":
		return invalidf("feedback is required")
	case req.Rating < 1 || req.Rating > 5:
		return invalidf("rating must be between 1 and 5")
	}
	return s.feedback.AddFeedback(ctx, model.Feedback{
		BookID:   req.BookID,
		UserID:   req.UserID,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
}

// FeedbackByBook returns the book's reviews, empty when none exist.
func (s *FeedbackService) FeedbackByBook(ctx context.Context, bookID string) ([]model.FeedbackEntry, error) {
	if bookID == "" {
		return nil, invalidf("bookId is required")
	}
	entries, err := s.feedback.FeedbackByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.FeedbackEntry{}
	}
	return entries, nil
}
