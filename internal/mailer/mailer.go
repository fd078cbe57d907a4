// Package mailer abstracts the outbound mail transport for overdue
// reminders. The transport itself is an external collaborator; the
// reminder job only depends on the Mailer interface.
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"github.com/pagekeep/pagekeep/internal/model"
)

// Mailer sends one overdue-reminder notice to one recipient.
type Mailer interface {
	SendOverdueReminder(ctx context.Context, to, name string, books []model.OverdueBook) error
}

// SMTP sends reminders through a plain SMTP relay configured from the
// environment (SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, SMTP_FROM).
type SMTP struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPFromEnv builds an SMTP mailer from environment variables.
func NewSMTPFromEnv() *SMTP {
	host := getEnv("SMTP_HOST", "localhost")
	port := getEnv("SMTP_PORT", "587")
	user := os.Getenv("SMTP_USER")

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}
	return &SMTP{
		addr: host + ":" + port,
		from: getEnv("SMTP_FROM", user),
		auth: auth,
	}
}

// SendOverdueReminder composes and sends the reminder mail.
func (m *SMTP) SendOverdueReminder(_ context.Context, to, name string, books []model.OverdueBook) error {
	subject := "Reminder: Overdue Books"
	body := composeReminderHTML(name, books)

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send reminder to %s: %w", to, err)
	}
	return nil
}

// composeReminderHTML renders the notice body listing every overdue book.
func composeReminderHTML(name string, books []model.OverdueBook) string {
	noun, verb, object := "book", "is", "it"
	if len(books) > 1 {
		noun, verb, object = "books", "are", "them"
	}

	var b strings.Builder
	b.WriteString("<h1>Overdue Reminder</h1>")
	fmt.Fprintf(&b, "<p>Dear %s,</p>", name)
	fmt.Fprintf(&b, "<p>The following %s %s now overdue:</p><ul>", noun, verb)
	for _, book := range books {
		fmt.Fprintf(&b, "<li>%s</li>", book.BookName)
	}
	fmt.Fprintf(&b, "</ul><p>Please return %s as soon as possible.</p>", object)
	return b.String()
}

// Log is a Mailer that only logs, for local development and tests.
type Log struct{}

// SendOverdueReminder logs the notice instead of sending it.
func (Log) SendOverdueReminder(_ context.Context, to, name string, books []model.OverdueBook) error {
	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = b.BookName
	}
	log.Printf("reminder (not sent): to=%s name=%s books=%s", to, name, strings.Join(titles, ", "))
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
