package model

// SignupRequest is the payload for creating a user or librarian account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddBookRequest is the payload for cataloguing a book. The librarian
// endpoint fills BookImage after storing the uploaded file; the
// user-publish endpoint supplies it as a URL.
type AddBookRequest struct {
	BookName       string  `json:"bookName"`
	AuthorName     string  `json:"authorName"`
	ISBNNumber     string  `json:"isbnNumber"`
	PublishedDate  Date    `json:"publishedDate"`
	BookImage      string  `json:"bookImage"`
	Description    string  `json:"description"`
	NumberOfCopies int     `json:"numberOfCopies"`
	Fine           float64 `json:"fine"`
}

// UserBookRequest identifies one (user, book) pairing, the body shape
// shared by cart and reservation mutations.
type UserBookRequest struct {
	UserID string `json:"userId"`
	BookID string `json:"bookId"`
}

// ReserveRequest is the payload for reserving a book.
type ReserveRequest struct {
	UserID    string  `json:"userId"`
	BookID    string  `json:"bookId"`
	Fine      float64 `json:"fine"`
	WillUseBy Date    `json:"willUseBy"`
}

// FeedbackRequest is the payload for submitting feedback on a book.
type FeedbackRequest struct {
	BookID   string `json:"bookId"`
	UserID   string `json:"userId"`
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

// SubmissionRequest is the payload for proposing a book for review.
type SubmissionRequest struct {
	UserID        string `json:"userId"`
	BookID        string `json:"bookId"`
	BookName      string `json:"bookName"`
	AuthorName    string `json:"authorName"`
	ISBNNumber    string `json:"isbnNumber"`
	PublishedDate Date   `json:"publishedDate"`
	BookImage     string `json:"bookImage"`
	Description   string `json:"description"`
}

// PublicationRequest is the payload for announcing a publication.
type PublicationRequest struct {
	BookName      string `json:"bookName"`
	AuthorName    string `json:"authorName"`
	ISBNNumber    string `json:"isbnNumber"`
	PublishedDate Date   `json:"publishedDate"`
	BookImage     string `json:"bookImage"`
	Description   string `json:"description"`
}

// EmailRecordRequest is the payload for manually recording a sent reminder.
type EmailRecordRequest struct {
	UserID string `json:"userId"`
	BookID string `json:"bookId"`
}

// ErrorResponse is the standard JSON error envelope. Kind discriminates
// domain conflicts so clients can branch without parsing messages;
// RequestID correlates opaque internal errors with server logs.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
