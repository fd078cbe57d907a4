package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/service"
)

// AuthHandler holds the HTTP handlers for account creation and login.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Routes mounts the auth endpoints.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/user/signup", h.UserSignup)
	r.Post("/user/login", h.UserLogin)
	r.Get("/user/{id}", h.GetUser)
	r.Post("/librarian/signup", h.LibrarianSignup)
	r.Post("/librarian/login", h.LibrarianLogin)
	r.Get("/librarian/{id}", h.GetLibrarian)
}

// UserSignup handles POST /auth/user/signup
func (h *AuthHandler) UserSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.SignupUser(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// UserLogin handles POST /auth/user/login
func (h *AuthHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.LoginUser(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUser handles GET /auth/user/{id}
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.UserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// LibrarianSignup handles POST /auth/librarian/signup
func (h *AuthHandler) LibrarianSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	lib, err := h.svc.SignupLibrarian(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "librarian not found")
		return
	}
	writeJSON(w, http.StatusCreated, lib)
}

// LibrarianLogin handles POST /auth/librarian/login
func (h *AuthHandler) LibrarianLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	lib, err := h.svc.LoginLibrarian(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "librarian not found")
		return
	}
	writeJSON(w, http.StatusOK, lib)
}

// GetLibrarian handles GET /auth/librarian/{id}
func (h *AuthHandler) GetLibrarian(w http.ResponseWriter, r *http.Request) {
	lib, err := h.svc.LibrarianByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, "librarian not found")
		return
	}
	writeJSON(w, http.StatusOK, lib)
}
