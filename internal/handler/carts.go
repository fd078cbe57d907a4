package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/service"
)

// CartHandler holds the HTTP handlers for user carts.
type CartHandler struct {
	svc *service.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// Routes mounts the cart endpoints.
func (h *CartHandler) Routes(r chi.Router) {
	r.Post("/add", h.AddToCart)
	r.Get("/{userId}", h.CartItems)
	r.Get("/", h.AllCarts)
	r.Delete("/remove", h.RemoveFromCart)
}

// AddToCart handles POST /cart/add
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req model.UserBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.AddToCart(r.Context(), req); err != nil {
		writeDomainError(w, r, err, "user or book not found")
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "book added to cart"})
}

// CartItems handles GET /cart/{userId}
func (h *CartHandler) CartItems(w http.ResponseWriter, r *http.Request) {
	cart, err := h.svc.CartItems(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err, "cart not found for the user")
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AllCarts handles GET /cart
func (h *CartHandler) AllCarts(w http.ResponseWriter, r *http.Request) {
	carts, err := h.svc.AllCarts(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if carts == nil {
		carts = []model.UserCart{}
	}
	writeJSON(w, http.StatusOK, carts)
}

// RemoveFromCart handles DELETE /cart/remove
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req model.UserBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.RemoveFromCart(r.Context(), req); err != nil {
		writeDomainError(w, r, err, "book not found in the cart")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "book removed from cart"})
}
