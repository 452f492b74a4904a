package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the menu over HTTP.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/menu", func(r chi.Router) {
		r.Get("/", h.listEntries)  // GET /api/v1/menu?category=food
		r.Get("/{id}", h.getEntry) // GET /api/v1/menu/{id}
	})
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	var category Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, err := ParseCategory(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		category = c
	}
	respond(w, http.StatusOK, h.service.List(category))
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrEntryNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, e)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
