// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
//
// Services depend on small store interfaces rather than the concrete
// pgx repositories so they can be exercised without a database; the
// repositories in internal/repository are the production implementations.
package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCredentials is returned on login with an unknown email or a
// wrong password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError marks a request rejected before touching storage.
// Handlers map it to a 400 response.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// invalidf builds a ValidationError.
func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
