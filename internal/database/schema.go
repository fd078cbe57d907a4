package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the DDL applied at startup. Uniqueness constraints carry
// the domain rules the repositories rely on: one cart per user, one
// reservation per (user, book), one feedback per (book, user), one
// email header per (user, day) and one detail row per (email, book, day).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS librarians (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS books (
		id               TEXT PRIMARY KEY,
		book_name        TEXT NOT NULL,
		author_name      TEXT NOT NULL,
		isbn_number      TEXT NOT NULL,
		published_date   DATE NOT NULL,
		book_image       TEXT,
		description      TEXT,
		number_of_copies INT NOT NULL DEFAULT 1,
		fine             NUMERIC(10,2) NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS use_by_dates (
		id          TEXT PRIMARY KEY,
		book_id     TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		will_use_by DATE NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS feedbacks (
		id         TEXT PRIMARY KEY,
		book_id    TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		rating     INT NOT NULL,
		feedback   TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (book_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS carts (
		id      TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS cart_items (
		id      TEXT PRIMARY KEY,
		cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		UNIQUE (cart_id, book_id)
	)`,

	`CREATE TABLE IF NOT EXISTS reserved_books (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		book_id       TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		fine          NUMERIC(10,2),
		created_date  DATE NOT NULL DEFAULT CURRENT_DATE,
		will_use_by   DATE,
		submit_status TEXT,
		UNIQUE (user_id, book_id)
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS submission_items (
		id             TEXT PRIMARY KEY,
		submission_id  TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		book_id        TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		book_name      TEXT,
		author_name    TEXT,
		isbn_number    TEXT,
		published_date DATE,
		book_image     TEXT,
		description    TEXT,
		submitted_on   TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (submission_id, book_id)
	)`,

	`CREATE TABLE IF NOT EXISTS publications (
		id             TEXT PRIMARY KEY,
		book_name      TEXT NOT NULL,
		author_name    TEXT NOT NULL,
		isbn_number    TEXT NOT NULL,
		published_date DATE NOT NULL,
		book_image     TEXT,
		description    TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS emails (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_date DATE NOT NULL,
		UNIQUE (user_id, created_date)
	)`,

	`CREATE TABLE IF NOT EXISTS email_items (
		id           TEXT PRIMARY KEY,
		email_id     TEXT NOT NULL REFERENCES emails(id) ON DELETE CASCADE,
		book_id      TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		created_date DATE NOT NULL,
		UNIQUE (email_id, book_id, created_date)
	)`,
}

// Init applies the schema. Every statement is idempotent, so Init is
// safe to run on every boot.
func Init(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
