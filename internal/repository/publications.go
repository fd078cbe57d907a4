package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagekeep/pagekeep/internal/model"
)

// PublicationRepository handles persistence for publication announcements.
type PublicationRepository struct {
	db *pgxpool.Pool
}

// NewPublicationRepository constructs a PublicationRepository.
func NewPublicationRepository(db *pgxpool.Pool) *PublicationRepository {
	return &PublicationRepository{db: db}
}

// CreatePublication inserts a new publication and returns it.
func (r *PublicationRepository) CreatePublication(ctx context.Context, req model.PublicationRequest) (*model.Publication, error) {
	pub := &model.Publication{
		ID:            uuid.New().String(),
		BookName:      req.BookName,
		AuthorName:    req.AuthorName,
		ISBNNumber:    req.ISBNNumber,
		PublishedDate: req.PublishedDate,
		BookImage:     req.BookImage,
		Description:   req.Description,
		CreatedAt:     time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO publications
		   (id, book_name, author_name, isbn_number, published_date, book_image, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pub.ID, pub.BookName, pub.AuthorName, pub.ISBNNumber, pub.PublishedDate,
		pub.BookImage, pub.Description, pub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert publication: %w", err)
	}
	return pub, nil
}

// AllPublications returns every publication, newest first.
func (r *PublicationRepository) AllPublications(ctx context.Context) ([]model.Publication, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, book_name, author_name, isbn_number, published_date,
		        COALESCE(book_image, ''), description, created_at
		 FROM publications
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	var pubs []model.Publication
	for rows.Next() {
		var p model.Publication
		if err := rows.Scan(&p.ID, &p.BookName, &p.AuthorName, &p.ISBNNumber,
			&p.PublishedDate, &p.BookImage, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}

// DeletePublication removes a publication or returns ErrNotFound.
func (r *PublicationRepository) DeletePublication(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete publication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
