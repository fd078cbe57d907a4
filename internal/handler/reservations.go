package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/service"
)

// ReservationHandler holds the HTTP handlers for reservations.
type ReservationHandler struct {
	svc *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// Routes mounts the reservation endpoints.
func (h *ReservationHandler) Routes(r chi.Router) {
	r.Post("/add", h.Reserve)
	r.Get("/books-reserved/{userId}", h.ReservedByUser)
	r.Get("/book-copies-count/{bookId}", h.CopiesReservedCount)
	r.Get("/all", h.AllReservations)
	r.Get("/group/{bookId}", h.ReservationsByBook)
	r.Get("/nearest-will-use-by/{bookId}", h.NearestWillUseBy)
	r.Put("/update-reserved-book", h.RequestReturn)
	r.Delete("/remove", h.RemoveReservation)
	r.Put("/remove-fine/{userId}", h.RemoveFine)
}

// Reserve handles POST /reserved/add
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req model.ReserveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.Reserve(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ReservedByUser handles GET /reserved/user/{userId}
func (h *ReservationHandler) ReservedByUser(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.ReservedByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err, "user not found")
		return
	}
	if books == nil {
		books = []model.ReservedBook{}
	}
	writeJSON(w, http.StatusOK, books)
}

// CopiesReservedCount handles GET /reserved/count/{bookId}
func (h *ReservationHandler) CopiesReservedCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.CopiesReservedCount(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// AllReservations handles GET /reserved/all
// Rows come back grouped per user so the staff dashboard can render
// one card per reader.
func (h *ReservationHandler) AllReservations(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.svc.AllReservationsByUser(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if grouped == nil {
		grouped = []model.UserReservations{}
	}
	writeJSON(w, http.StatusOK, grouped)
}

// ReservationsByBook handles GET /reserved/book/{bookId}
func (h *ReservationHandler) ReservationsByBook(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.svc.ReservationsByBook(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		writeDomainError(w, r, err, "book not found")
		return
	}
	if reservations == nil {
		reservations = []model.Reservation{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

// NearestWillUseBy handles GET /reserved/nearest-will-use-by/{bookId}
// 404 when the book has no reservations; null when every held copy is
// already past due.
func (h *ReservationHandler) NearestWillUseBy(w http.ResponseWriter, r *http.Request) {
	date, ok, err := h.svc.NearestWillUseBy(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		writeDomainError(w, r, err, "no reservations found for the book")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"nearestWillUseBy": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nearestWillUseBy": date})
}

// RequestReturn handles PUT /reserved/update
func (h *ReservationHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	var req model.UserBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.RequestReturn(r.Context(), req); err != nil {
		writeDomainError(w, r, err, "reservation not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "reservation marked for return"})
}

// RemoveReservation handles DELETE /reserved/remove
func (h *ReservationHandler) RemoveReservation(w http.ResponseWriter, r *http.Request) {
	var req model.UserBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.RemoveReservation(r.Context(), req); err != nil {
		writeDomainError(w, r, err, "reservation not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "reservation removed"})
}

// RemoveFine handles PUT /reserved/remove-fine/{userId}
func (h *ReservationHandler) RemoveFine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID string `json:"bookId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.RemoveFine(r.Context(), chi.URLParam(r, "userId"), req.BookID); err != nil {
		writeDomainError(w, r, err, "reservation not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "fine cleared"})
}
