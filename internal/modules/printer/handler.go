package printer

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/receipts/{order_id}", h.getReceipt)              // GET  /api/v1/receipts/{order_id}
	r.Post("/api/v1/printer/orders/{order_id}/print", h.printOrder) // POST /api/v1/printer/orders/{order_id}/print
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.Receipt(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// printOrder answers 200 whenever an attempt ran, including failed ones; the
// result body carries the terminal state and reason.
func (h *Handler) printOrder(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Print(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, res)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
