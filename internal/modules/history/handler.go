package history

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the order history over HTTP.
type Handler struct {
	store    *Store
	location *time.Location
}

// NewHandler creates the history handler. Date-only query bounds are read
// in loc, the shop's local time zone.
func NewHandler(store *Store, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{store: store, location: loc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)         // GET    /api/v1/orders?name=ana&from=2026-10-01&to=2026-10-18
		r.Delete("/", h.clearOrders)     // DELETE /api/v1/orders
		r.Get("/{id}", h.getOrder)       // GET    /api/v1/orders/{id}
		r.Delete("/{id}", h.deleteOrder) // DELETE /api/v1/orders/{id}
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := Criteria{Name: q.Get("name")}

	from, err := parseBound(q.Get("from"), false, h.location)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid from: " + err.Error()})
		return
	}
	to, err := parseBound(q.Get("to"), true, h.location)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid to: " + err.Error()})
		return
	}
	c.From, c.To = from, to

	respond(w, http.StatusOK, h.store.Filter(c))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !removed {
		respond(w, http.StatusNotFound, map[string]string{"error": fmt.Errorf("%w: %s", ErrOrderNotFound, id).Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "order deleted"})
}

func (h *Handler) clearOrders(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "history cleared"})
}

// ── helpers ───────────────────────────────────────────────────────────────────

const dateLayout = "2006-01-02"

// parseBound reads an RFC 3339 timestamp or a calendar date. A date used as
// an upper bound covers the whole day.
func parseBound(raw string, upper bool, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", raw)
	}
	if upper {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day, nil
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
