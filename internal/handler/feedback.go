package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/service"
)

// FeedbackHandler holds the HTTP handlers for book feedback.
type FeedbackHandler struct {
	svc *service.FeedbackService
}

// NewFeedbackHandler constructs a FeedbackHandler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Routes mounts the feedback endpoints.
func (h *FeedbackHandler) Routes(r chi.Router) {
	r.Post("/send", h.SendFeedback)
	r.Get("/{bookId}", h.FeedbackByBook)
}

// SendFeedback handles POST /feedback/send
func (h *FeedbackHandler) SendFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.SendFeedback(r.Context(), req); err != nil {
		writeDomainError(w, r, err, "user or book not found")
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "feedback recorded"})
}

// FeedbackByBook handles GET /feedback/{bookId}
func (h *FeedbackHandler) FeedbackByBook(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.FeedbackByBook(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
