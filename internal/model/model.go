// Package model defines the core domain types for the library system.
package model

import "time"

// User is a library member account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Librarian is a staff account with catalog privileges.
type Librarian struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Book is a catalogued title. NumberOfCopies bounds how many
// reservations may be active at once.
type Book struct {
	ID             string    `json:"id"`
	BookName       string    `json:"bookName"`
	AuthorName     string    `json:"authorName"`
	ISBNNumber     string    `json:"isbnNumber"`
	PublishedDate  Date      `json:"publishedDate"`
	BookImage      string    `json:"bookImage"`
	Description    string    `json:"description"`
	NumberOfCopies int       `json:"numberOfCopies"`
	Fine           float64   `json:"fine"`
	CreatedAt      time.Time `json:"created_at"`
}

// Remaining returns how many copies are still reservable given the
// current reservation count.
func (b *Book) Remaining(reserved int) int {
	return b.NumberOfCopies - reserved
}

// IsFullyReserved reports whether every copy is already reserved.
func (b *Book) IsFullyReserved(reserved int) bool {
	return reserved >= b.NumberOfCopies
}

// UseByDate is a projected availability date a librarian attaches to a book.
type UseByDate struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	WillUseBy Date      `json:"willUseBy"`
	CreatedAt time.Time `json:"created_at"`
}

// Reservation holds one copy of a book for one user. At most one
// active reservation exists per (user, book).
type Reservation struct {
	ID           string   `json:"id"`
	UserID       string   `json:"userId"`
	BookID       string   `json:"bookId"`
	Fine         *float64 `json:"fine"`
	CreatedDate  Date     `json:"createdDate"`
	WillUseBy    Date     `json:"willUseBy"`
	SubmitStatus string   `json:"submitStatus,omitempty"`
}

// SubmitStatusSubmitting marks a reservation the user has asked to return.
// The row itself is deleted when the librarian accepts the return.
const SubmitStatusSubmitting = "Submitting"

// ReservedBook is a reservation joined with its book's details, the
// shape the user-facing reserved-books listing returns.
type ReservedBook struct {
	UserID         string   `json:"userId"`
	BookID         string   `json:"bookId"`
	Fine           *float64 `json:"fine"`
	CreatedDate    Date     `json:"createdDate"`
	WillUseBy      Date     `json:"willUseBy"`
	SubmitStatus   string   `json:"submitStatus,omitempty"`
	BookName       string   `json:"bookName"`
	AuthorName     string   `json:"authorName"`
	Description    string   `json:"description"`
	ISBNNumber     string   `json:"isbnNumber"`
	PublishedDate  Date     `json:"publishedDate"`
	BookImage      string   `json:"bookImage"`
	NumberOfCopies int      `json:"numberOfCopies"`
}

// ReservationWithUser is one reservation row joined with its owner,
// used to build the per-user grouping of all reservations.
type ReservationWithUser struct {
	UserID       string
	UserName     string
	Email        string
	BookID       string
	BookName     string
	Fine         *float64
	CreatedDate  Date
	WillUseBy    Date
	SubmitStatus string
}

// ReservationSummary is one book entry inside a user's grouped reservations.
type ReservationSummary struct {
	BookID       string   `json:"bookId"`
	BookName     string   `json:"bookName"`
	Fine         *float64 `json:"fine"`
	CreatedDate  Date     `json:"createdDate"`
	WillUseBy    Date     `json:"willUseBy"`
	SubmitStatus string   `json:"submitStatus,omitempty"`
}

// UserReservations groups every reservation a user holds.
type UserReservations struct {
	UserID        string               `json:"userId"`
	UserName      string               `json:"userName"`
	Email         string               `json:"email"`
	ReservedBooks []ReservationSummary `json:"reservedBooks"`
}

// UserCart pairs a user with the books currently in their cart.
type UserCart struct {
	UserID string `json:"userId"`
	Items  []Book `json:"items"`
}

// Feedback is a user's one-per-book review.
type Feedback struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackEntry is the public shape of one piece of feedback.
type FeedbackEntry struct {
	UserName string `json:"userName"`
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

// SubmissionItem is one book a user proposed inside their submission.
type SubmissionItem struct {
	ID            string    `json:"id"`
	SubmissionID  string    `json:"submissionId"`
	BookID        string    `json:"bookId"`
	BookName      string    `json:"bookName"`
	AuthorName    string    `json:"authorName"`
	ISBNNumber    string    `json:"isbnNumber"`
	PublishedDate Date      `json:"publishedDate"`
	BookImage     string    `json:"bookImage"`
	Description   string    `json:"description"`
	SubmittedOn   time.Time `json:"submittedOn"`
}

// UserSubmission is a user's submission header with its items.
type UserSubmission struct {
	UserID       string           `json:"userId"`
	SubmissionID string           `json:"submissionId"`
	Items        []SubmissionItem `json:"items"`
}

// Publication is a librarian-announced title, separate from the catalog.
type Publication struct {
	ID            string    `json:"id"`
	BookName      string    `json:"bookName"`
	AuthorName    string    `json:"authorName"`
	ISBNNumber    string    `json:"isbnNumber"`
	PublishedDate Date      `json:"publishedDate"`
	BookImage     string    `json:"bookImage"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

// OverdueBook is one overdue title inside a reminder notice.
type OverdueBook struct {
	BookID   string `json:"bookId"`
	BookName string `json:"bookName"`
}

// UserNotice groups the overdue (or already-notified) books for one
// user. The reminder job builds these; the email-history endpoint
// returns them.
type UserNotice struct {
	UserID    string        `json:"userId"`
	UserName  string        `json:"userName"`
	UserEmail string        `json:"userEmail"`
	Books     []OverdueBook `json:"books"`
}

// BookSuggestion is a search-suggestion row.
type BookSuggestion struct {
	BookName string `json:"bookName"`
}
