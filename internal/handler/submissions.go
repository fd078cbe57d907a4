package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/service"
)

// SubmissionHandler holds the HTTP handlers for return submissions.
type SubmissionHandler struct {
	svc *service.SubmissionService
}

// NewSubmissionHandler constructs a SubmissionHandler.
func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Routes mounts the submission endpoints.
func (h *SubmissionHandler) Routes(r chi.Router) {
	r.Post("/add", h.Submit)
	r.Get("/{userId}", h.SubmissionByUser)
}

// Submit handles POST /submission/add
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Submit(r.Context(), req); err != nil {
		writeDomainError(w, r, err, "user or book not found")
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "book submitted for return"})
}

// SubmissionByUser handles GET /submission/{userId}
func (h *SubmissionHandler) SubmissionByUser(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.SubmissionByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err, "no submission found for the user")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
