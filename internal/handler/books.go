package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/service"
	"github.com/pagekeep/pagekeep/internal/storage"
)

// maxUploadBytes caps multipart book-image uploads.
const maxUploadBytes = 10 << 20 // 10 MB

// BookHandler holds the HTTP handlers for the book catalog.
type BookHandler struct {
	svc    *service.BookService
	carts  *service.CartService
	images storage.ImageStore
}

// NewBookHandler constructs a BookHandler.
func NewBookHandler(svc *service.BookService, carts *service.CartService, images storage.ImageStore) *BookHandler {
	return &BookHandler{svc: svc, carts: carts, images: images}
}

// PublicRoutes mounts the user-facing catalog endpoints.
func (h *BookHandler) PublicRoutes(r chi.Router) {
	r.Get("/", h.ListBooks)
	r.Get("/{id}", h.GetBook)
	r.Get("/suggestions/{query}", h.Suggestions)
	r.Post("/publish", h.PublishBook)
}

// LibrarianRoutes mounts the staff-side catalog endpoints.
func (h *BookHandler) LibrarianRoutes(r chi.Router) {
	r.Post("/addbook", h.AddBook)
	r.Get("/getbook/{id}", h.GetBook)
	r.Delete("/deletebook/{id}", h.DeleteBook)
	r.Put("/increase-copy/{bookId}", h.IncreaseCopies)
	r.Put("/decrease-copy/{bookId}", h.DecreaseCopies)
	r.Post("/add-will-use-by/{bookId}", h.AddUseByDate)
	r.Delete("/remove-from-carts", h.RemoveFromAllCarts)
}

// AddBook handles POST /librarian/addbook
// The body is a multipart form carrying the book fields plus the
// bookImage file, which is stored before the row is written.
func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeBookForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.svc.AddBook(r.Context(), *req)
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// PublishBook handles POST /books/publish
// JSON variant used when a user-submitted book is accepted into the
// catalog; the image arrives as a URL instead of an upload.
func (h *BookHandler) PublishBook(w http.ResponseWriter, r *http.Request) {
	var req model.AddBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	book, err := h.svc.AddBook(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// ListBooks handles GET /books
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.AllBooks(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

// GetBook handles GET /books/{id} and GET /librarian/getbook/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.BookByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// DeleteBook handles DELETE /librarian/deletebook/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.DeleteBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "book deleted successfully",
		"deletedBook": book,
	})
}

// IncreaseCopies handles PUT /librarian/increase-copy/{bookId}
func (h *BookHandler) IncreaseCopies(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.IncreaseCopies(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// DecreaseCopies handles PUT /librarian/decrease-copy/{bookId}
func (h *BookHandler) DecreaseCopies(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.DecreaseCopies(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Suggestions handles GET /books/suggestions/{query}
func (h *BookHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.svc.Suggestions(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	if suggestions == nil {
		suggestions = []model.BookSuggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// AddUseByDate handles POST /librarian/add-will-use-by/{bookId}
func (h *BookHandler) AddUseByDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WillUseBy model.Date `json:"willUseBy"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	dates, err := h.svc.AddUseByDate(r.Context(), chi.URLParam(r, "bookId"), req.WillUseBy)
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

// RemoveFromAllCarts handles DELETE /librarian/remove-from-carts
// Purging a delisted book from every cart is a global side effect, so
// it lives on the librarian surface rather than the cart one.
func (h *BookHandler) RemoveFromAllCarts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID string `json:"bookId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	removed, err := h.carts.RemoveFromAllCarts(r.Context(), req.BookID)
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "book removed from all carts",
		"removed": removed,
	})
}

// decodeBookForm reads the multipart add-book form, storing the
// uploaded cover image if one is attached.
func (h *BookHandler) decodeBookForm(r *http.Request) (*model.AddBookRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	req := &model.AddBookRequest{
		BookName:    r.FormValue("bookName"),
		AuthorName:  r.FormValue("authorName"),
		ISBNNumber:  r.FormValue("isbnNumber"),
		Description: r.FormValue("description"),
	}

	if v := r.FormValue("publishedDate"); v != "" {
		date, err := model.ParseDate(v)
		if err != nil {
			return nil, err
		}
		req.PublishedDate = date
	}
	if v := r.FormValue("numberOfCopies"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
		req.NumberOfCopies = n
	}
	if v := r.FormValue("fine"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
		req.Fine = f
	}

	file, header, err := r.FormFile("bookImage")
	if err == nil {
		defer file.Close()
		url, saveErr := h.images.SaveImage(header.Filename, file)
		if saveErr != nil {
			return nil, saveErr
		}
		req.BookImage = url
	} else if err != http.ErrMissingFile {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	return req, nil
}
