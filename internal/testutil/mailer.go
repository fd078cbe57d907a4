package testutil

import (
	"context"
	"sync"

	"github.com/pagekeep/pagekeep/internal/model"
)

// SentMail is one message captured by the Mailer fake.
type SentMail struct {
	To    string
	Name  string
	Books []model.OverdueBook
}

// Mailer records reminder mails instead of sending them. Fail maps a
// recipient address to the error its send should return.
type Mailer struct {
	mu   sync.Mutex
	sent []SentMail

	Fail map[string]error
}

// NewMailer returns an empty recording mailer.
func NewMailer() *Mailer {
	return &Mailer{}
}

// SendOverdueReminder records the mail, or fails if the recipient is
// listed in Fail.
func (m *Mailer) SendOverdueReminder(_ context.Context, to, name string, books []model.OverdueBook) error {
	if err := m.Fail[to]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Name: name, Books: books})
	return nil
}

// Sent returns a copy of everything recorded so far.
func (m *Mailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sent...)
}
