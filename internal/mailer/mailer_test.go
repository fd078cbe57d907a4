package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pagekeep/pagekeep/internal/model"
)

func TestComposeReminderHTML(t *testing.T) {
	one := composeReminderHTML("Asha", []model.OverdueBook{{BookName: "Go Patterns"}})
	assert.Contains(t, one, "Dear Asha,")
	assert.Contains(t, one, "<li>Go Patterns</li>")
	assert.Contains(t, one, "book is now overdue")
	assert.Contains(t, one, "return it as soon")

	many := composeReminderHTML("Asha", []model.OverdueBook{
		{BookName: "Go Patterns"},
		{BookName: "Rust Atlas"},
	})
	assert.Contains(t, many, "books are now overdue")
	assert.Contains(t, many, "return them as soon")
	assert.Contains(t, many, "<li>Rust Atlas</li>")
}
