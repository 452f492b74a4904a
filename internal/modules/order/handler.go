package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/georgemunganga/kasir-backend/internal/modules/catalog"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the cart and checkout over HTTP.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.getCart)                                  // GET    /api/v1/cart
		r.Post("/lines", h.addLine)                            // POST   /api/v1/cart/lines
		r.Post("/lines/{entry_id}/decrement", h.decrementLine) // POST   /api/v1/cart/lines/{entry_id}/decrement
		r.Delete("/lines/{entry_id}", h.removeLine)            // DELETE /api/v1/cart/lines/{entry_id}
		r.Put("/details", h.updateDetails)                     // PUT    /api/v1/cart/details
		r.Post("/checkout", h.checkout)                        // POST   /api/v1/cart/checkout
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Cart(r.Context()))
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cart, err := h.service.AddLine(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrEntryNotFound) {
			code = http.StatusNotFound
		} else if strings.Contains(err.Error(), "required") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, cart)
}

func (h *Handler) decrementLine(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.DecrementLine(r.Context(), chi.URLParam(r, "entry_id")))
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.RemoveLine(r.Context(), chi.URLParam(r, "entry_id")))
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	var req UpdateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.service.UpdateDetails(r.Context(), req))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	o, err := h.service.Checkout(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrEmptyOrder) {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, o)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
