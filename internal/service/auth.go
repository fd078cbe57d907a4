package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
)

// AccountStore is the persistence surface AuthService needs.
type AccountStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	CreateLibrarian(ctx context.Context, name, email, passwordHash string) (*model.Librarian, error)
	LibrarianByEmail(ctx context.Context, email string) (*model.Librarian, error)
	LibrarianByID(ctx context.Context, id string) (*model.Librarian, error)
}

// AuthService handles account creation and login for users and
// librarians. Passwords are stored as bcrypt hashes, never plain text.
type AuthService struct {
	accounts AccountStore
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts AccountStore) *AuthService {
	return &AuthService{accounts: accounts}
}

// SignupUser validates the request, hashes the password and creates the account.
func (s *AuthService) SignupUser(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	name, email, hash, err := s.validateSignup(req)
	if err != nil {
		return nil, err
	}
	return s.accounts.CreateUser(ctx, name, email, hash)
}

// LoginUser verifies the credentials against the stored bcrypt hash.
func (s *AuthService) LoginUser(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	email, err := s.validateLogin(req)
	if err != nil {
		return nil, err
	}
	user, err := s.accounts.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UserByID returns the user or repository.ErrNotFound.
func (s *AuthService) UserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, invalidf("user id is required")
	}
	return s.accounts.UserByID(ctx, id)
}

// SignupLibrarian validates the request, hashes the password and
// creates the librarian account.
func (s *AuthService) SignupLibrarian(ctx context.Context, req model.SignupRequest) (*model.Librarian, error) {
	name, email, hash, err := s.validateSignup(req)
	if err != nil {
		return nil, err
	}
	return s.accounts.CreateLibrarian(ctx, name, email, hash)
}

// LoginLibrarian verifies librarian credentials.
func (s *AuthService) LoginLibrarian(ctx context.Context, req model.LoginRequest) (*model.Librarian, error) {
	email, err := s.validateLogin(req)
	if err != nil {
		return nil, err
	}
	lib, err := s.accounts.LibrarianByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login librarian: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(lib.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return lib, nil
}

// LibrarianByID returns the librarian or repository.ErrNotFound.
func (s *AuthService) LibrarianByID(ctx context.Context, id string) (*model.Librarian, error) {
	if id == "" {
		return nil, invalidf("librarian id is required")
	}
	return s.accounts.LibrarianByID(ctx, id)
}

func (s *AuthService) validateSignup(req model.SignupRequest) (name, email, hash string, err error) {
	name = strings.TrimSpace(req.Name)
	email = strings.TrimSpace(strings.ToLower(req.Email))
	switch {
	case name == "":
		return "", "", "", invalidf("name is required")
	case email == "":
		return "", "", "", invalidf("email is required")
	case !isValidEmail(email):
		return "", "", "", invalidf("email is not a valid email address")
	case len(req.Password) < 8:
		return "", "", "", invalidf("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", "", fmt.Errorf("hash password: %w", err)
	}
	return name, email, string(hashed), nil
}

func (s *AuthService) validateLogin(req model.LoginRequest) (string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return "", invalidf("email and password are required")
	}
	return email, nil
}
