// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"errors"
	"log"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/repository"
	"github.com/pagekeep/pagekeep/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Error mapping ────────────────────────────────────────────────────────────

// conflictKind maps domain-conflict sentinels to the stable kind
// discriminator clients branch on. Conflicts always travel as 409 plus
// kind, never as 200-with-flag.
func conflictKind(err error) (kind, msg string, ok bool) {
	switch {
	case errors.Is(err, repository.ErrAlreadyInCart):
		return "already_in_cart", "book already added to cart", true
	case errors.Is(err, repository.ErrAlreadyReserved):
		return "already_reserved", "you have already reserved this book", true
	case errors.Is(err, repository.ErrAllCopiesReserved):
		return "all_copies_reserved", "all copies of this book have been reserved", true
	case errors.Is(err, repository.ErrDuplicateFeedback):
		return "duplicate_feedback", "you have already submitted feedback for this book", true
	case errors.Is(err, repository.ErrAlreadySubmitted):
		return "already_submitted", "book already added to submission", true
	case errors.Is(err, repository.ErrAlreadyRecorded):
		return "already_recorded", "reminder already recorded today", true
	case errors.Is(err, repository.ErrEmailTaken):
		return "email_taken", "email already registered", true
	}
	return "", "", false
}

// writeDomainError maps service/repository errors onto the normalized
// status-code taxonomy. notFoundMsg names the missing entity; internal
// errors come back opaque with the request id for log correlation.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repository.ErrNoCopiesLeft):
		writeError(w, http.StatusBadRequest, "cannot decrease, no copies left")
	default:
		if kind, msg, ok := conflictKind(err); ok {
			writeJSON(w, http.StatusConflict, model.ErrorResponse{Error: msg, Kind: kind})
			return
		}
		writeInternal(w, r, err)
	}
}

// writeInternal logs the underlying error and responds with an opaque
// message. Raw driver errors never reach clients.
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	reqID := chimiddleware.GetReqID(r.Context())
	log.Printf("internal error [%s] %s %s: %v", reqID, r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:     "internal server error",
		RequestID: reqID,
	})
}

// messageResponse is the envelope for mutations that return no entity.
type messageResponse struct {
	Message string `json:"message"`
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
