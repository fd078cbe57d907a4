package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
	"github.com/pagekeep/pagekeep/internal/testutil"
)

func TestSignupUser(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testutil.NewStore())

	user, err := svc.SignupUser(ctx, model.SignupRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "asha@example.com", user.Email)

	// The stored credential must be a bcrypt hash, never the plaintext.
	stored, err := svc.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct horse")))
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testutil.NewStore())

	tests := []struct {
		name string
		req  model.SignupRequest
	}{
		{"missing name", model.SignupRequest{Email: "a@b.com", Password: "longenough"}},
		{"missing email", model.SignupRequest{Name: "A", Password: "longenough"}},
		{"bad email", model.SignupRequest{Name: "A", Email: "not-an-email", Password: "longenough"}},
		{"short password", model.SignupRequest{Name: "A", Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignupUser(ctx, tt.req)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testutil.NewStore())

	req := model.SignupRequest{Name: "Asha", Email: "asha@example.com", Password: "longenough"}
	_, err := svc.SignupUser(ctx, req)
	require.NoError(t, err)

	_, err = svc.SignupUser(ctx, req)
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testutil.NewStore())

	_, err := svc.SignupUser(ctx, model.SignupRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	user, err := svc.LoginUser(ctx, model.LoginRequest{Email: "asha@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	_, err = svc.LoginUser(ctx, model.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email is indistinguishable from a wrong password.
	_, err = svc.LoginUser(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLibrarianAccountsAreSeparate(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testutil.NewStore())

	_, err := svc.SignupLibrarian(ctx, model.SignupRequest{
		Name:     "Meera",
		Email:    "meera@example.com",
		Password: "longenough",
	})
	require.NoError(t, err)

	// A librarian account does not grant a user login.
	_, err = svc.LoginUser(ctx, model.LoginRequest{Email: "meera@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	lib, err := svc.LoginLibrarian(ctx, model.LoginRequest{Email: "meera@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "Meera", lib.Name)
}
