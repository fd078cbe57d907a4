package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/service"
)

// EmailHandler holds the HTTP handlers for the reminder email history.
type EmailHandler struct {
	svc *service.EmailService
}

// NewEmailHandler constructs an EmailHandler.
func NewEmailHandler(svc *service.EmailService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

// Routes mounts the email history endpoints.
func (h *EmailHandler) Routes(r chi.Router) {
	r.Post("/history", h.RecordReminder)
	r.Get("/history", h.TodaysHistory)
}

// RecordReminder handles POST /emails/history
func (h *EmailHandler) RecordReminder(w http.ResponseWriter, r *http.Request) {
	var req model.EmailRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.RecordReminder(r.Context(), req); err != nil {
		writeDomainError(w, r, err, "user or book not found")
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "reminder recorded"})
}

// TodaysHistory handles GET /emails/history
func (h *EmailHandler) TodaysHistory(w http.ResponseWriter, r *http.Request) {
	notices, err := h.svc.TodaysHistory(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "no reminder emails sent today")
		return
	}
	writeJSON(w, http.StatusOK, notices)
}
