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

// UserRepository handles persistence for user and librarian accounts.
// The two tables have the same shape but live apart so a cascade on one
// never touches the other.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user with an already-hashed password.
func (r *UserRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	user := &model.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Email, user.Password, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// UserByEmail returns a user or ErrNotFound.
func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(ctx,
		`SELECT id, name, email, password, created_at FROM users WHERE email = $1`,
		email,
	))
}

// UserByID returns a user or ErrNotFound.
func (r *UserRepository) UserByID(ctx context.Context, id string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(ctx,
		`SELECT id, name, email, password, created_at FROM users WHERE id = $1`,
		id,
	))
}

func (r *UserRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// CreateLibrarian inserts a new librarian with an already-hashed password.
func (r *UserRepository) CreateLibrarian(ctx context.Context, name, email, passwordHash string) (*model.Librarian, error) {
	lib := &model.Librarian{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO librarians (id, name, email, password, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		lib.ID, lib.Name, lib.Email, lib.Password, lib.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert librarian: %w", err)
	}
	return lib, nil
}

// LibrarianByEmail returns a librarian or ErrNotFound.
func (r *UserRepository) LibrarianByEmail(ctx context.Context, email string) (*model.Librarian, error) {
	return r.scanLibrarian(r.db.QueryRow(ctx,
		`SELECT id, name, email, password, created_at FROM librarians WHERE email = $1`,
		email,
	))
}

// LibrarianByID returns a librarian or ErrNotFound.
func (r *UserRepository) LibrarianByID(ctx context.Context, id string) (*model.Librarian, error) {
	return r.scanLibrarian(r.db.QueryRow(ctx,
		`SELECT id, name, email, password, created_at FROM librarians WHERE id = $1`,
		id,
	))
}

func (r *UserRepository) scanLibrarian(row pgx.Row) (*model.Librarian, error) {
	var l model.Librarian
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Password, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get librarian: %w", err)
	}
	return &l, nil
}
