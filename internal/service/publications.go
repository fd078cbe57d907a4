package service

import (
	"context"
	"strings"

	"github.com/pagekeep/pagekeep/internal/model"
)

// PublicationStore is the persistence surface PublicationService needs.
type PublicationStore interface {
	CreatePublication(ctx context.Context, req model.PublicationRequest) (*model.Publication, error)
	AllPublications(ctx context.Context) ([]model.Publication, error)
	DeletePublication(ctx context.Context, id string) error
}

// PublicationService orchestrates publication announcements.
type PublicationService struct {
	publications PublicationStore
}

// NewPublicationService constructs a PublicationService.
func NewPublicationService(publications PublicationStore) *PublicationService {
	return &PublicationService{publications: publications}
}

// Publish validates and records a publication announcement.
func (s *PublicationService) Publish(ctx context.Context, req model.PublicationRequest) (*model.Publication, error) {
	req.BookName = strings.TrimSpace(req.BookName)
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	switch {
	case req.BookName == "":
		return nil, invalidf("bookName is required")
	case req.AuthorName == "":
		return nil, invalidf("authorName is required")
	case req.ISBNNumber == "":
		return nil, invalidf("isbnNumber is required")
	case req.Description == "":
		return nil, invalidf("description is required")
	}
	return s.publications.CreatePublication(ctx, req)
}

// AllPublications returns every publication, newest first.
func (s *PublicationService) AllPublications(ctx context.Context) ([]model.Publication, error) {
	pubs, err := s.publications.AllPublications(ctx)
	if err != nil {
		return nil, err
	}
	if pubs == nil {
		pubs = []model.Publication{}
	}
	return pubs, nil
}

// DeletePublication removes a publication by id.
func (s *PublicationService) DeletePublication(ctx context.Context, id string) error {
	if id == "" {
		return invalidf("publication id is required")
	}
	return s.publications.DeletePublication(ctx, id)
}
