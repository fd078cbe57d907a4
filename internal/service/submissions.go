package service

import (
	"context"
	"strings"

	"github.com/pagekeep/pagekeep/internal/model"
)

// SubmissionStore is the persistence surface SubmissionService needs.
type SubmissionStore interface {
	AddSubmissionItem(ctx context.Context, req model.SubmissionRequest) error
	SubmissionByUser(ctx context.Context, userID string) (*model.UserSubmission, error)
}

// SubmissionService orchestrates user book submissions.
type SubmissionService struct {
	submissions SubmissionStore
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(submissions SubmissionStore) *SubmissionService {
	return &SubmissionService{submissions: submissions}
}

// Submit records a proposed book under the user's submission.
func (s *SubmissionService) Submit(ctx context.Context, req model.SubmissionRequest) error {
	req.BookName = strings.TrimSpace(req.BookName)
	switch {
	case req.UserID == "" || req.BookID == "":
		return invalidf("userId and bookId are required")
	case req.BookName == "":
		return invalidf("bookName is required")
	}
	return s.submissions.AddSubmissionItem(ctx, req)
}

// SubmissionByUser returns the user's submission with its items.
func (s *SubmissionService) SubmissionByUser(ctx context.Context, userID string) (*model.UserSubmission, error) {
	if userID == "" {
		return nil, invalidf("userId is required")
	}
	sub, err := s.submissions.SubmissionByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub.Items == nil {
		sub.Items = []model.SubmissionItem{}
	}
	return sub, nil
}
