// Package repository implements all database queries for the library system.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when an account email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrAlreadyInCart is returned when a (cart, book) pairing already exists.
var ErrAlreadyInCart = errors.New("book already in cart")

// ErrAlreadyReserved is returned when the user already holds a
// reservation for the book.
var ErrAlreadyReserved = errors.New("book already reserved by this user")

// ErrAllCopiesReserved is returned when a book's reservation count has
// reached its copy count.
var ErrAllCopiesReserved = errors.New("all copies of this book are reserved")

// ErrNoCopiesLeft is returned when decrementing a book's copy count below zero.
var ErrNoCopiesLeft = errors.New("no copies left to remove")

// ErrDuplicateFeedback is returned when the user already reviewed the book.
var ErrDuplicateFeedback = errors.New("feedback already submitted for this book")

// ErrAlreadySubmitted is returned when the book is already in the
// user's submission.
var ErrAlreadySubmitted = errors.New("book already added to submission")

// ErrAlreadyRecorded is returned when a reminder for the (user, book)
// pair was already recorded today.
var ErrAlreadyRecorded = errors.New("reminder already recorded today")

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Used where a pre-check can race with a concurrent insert.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres foreign-key
// violation, meaning a referenced row does not exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
