package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/georgemunganga/kasir-backend/internal/modules/events"
	"github.com/georgemunganga/kasir-backend/internal/modules/order"
)

// Slot is the storage key the whole history is written under.
const Slot = "orderHistory"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already recorded")
)

// Store is the persisted, most-recent-first list of finalized orders.
// Every mutation is flushed to the backend before it becomes visible;
// if the flush fails the store keeps its previous contents.
type Store struct {
	mu      sync.RWMutex
	orders  []order.Order
	backend Backend

	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithPublisher sends an event for every successful mutation.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Load reads the history from backend. A missing, unreadable or corrupt slot
// yields an empty history; the problem is logged and never returned.
func Load(ctx context.Context, backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		publisher: events.Noop{},
		logger:    log.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := backend.Load(ctx)
	if err != nil {
		s.logger.Printf("history: cannot read %s, starting empty: %v", Slot, err)
		return s
	}
	if len(data) == 0 {
		return s
	}
	orders, err := decode(data)
	if err != nil {
		s.logger.Printf("history: %s is corrupt, starting empty: %v", Slot, err)
		return s
	}
	s.orders = orders
	return s
}

// Append records o as the most recent order.
func (s *Store) Append(ctx context.Context, o order.Order) error {
	if o.ID == "" {
		return fmt.Errorf("order id is required")
	}
	o = o.Clone()

	s.mu.Lock()
	if s.indexOf(o.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
	}
	next := make([]order.Order, 0, len(s.orders)+1)
	next = append(next, o)
	next = append(next, s.orders...)
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(ctx, events.TopicOrderCreated, o.ID, o)
	return nil
}

// Delete removes the order with the given id. It reports whether an order
// was removed; an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := make([]order.Order, 0, len(s.orders)-1)
	next = append(next, s.orders[:i]...)
	next = append(next, s.orders[i+1:]...)
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	s.publish(ctx, events.TopicOrderDeleted, id, nil)
	return true, nil
}

// Clear removes every order.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.commit(ctx, []order.Order{})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(ctx, events.TopicOrdersClear, "", nil)
	return nil
}

// Get returns a copy of the order with the given id.
func (s *Store) Get(id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return order.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return s.orders[i].Clone(), nil
}

// List returns every order, most recent first.
func (s *Store) List() []order.Order {
	return s.Filter(Criteria{})
}

// Filter returns the orders matching c, most recent first.
func (s *Store) Filter(c Criteria) []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.orders, c)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// commit flushes next and, on success, makes it the current history.
// Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []order.Order) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", Slot, err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("save %s: %w", Slot, err)
	}
	s.orders = next
	return nil
}

func (s *Store) publish(ctx context.Context, topic, orderID string, payload interface{}) {
	msg, err := events.Encode(topic, orderID, payload, s.now())
	if err != nil {
		s.logger.Printf("history: encode %s event: %v", topic, err)
		return
	}
	if err := s.publisher.Publish(ctx, topic, msg); err != nil {
		s.logger.Printf("history: publish %s for %q: %v", topic, orderID, err)
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func decode(data []byte) ([]order.Order, error) {
	var orders []order.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, err
	}
	// Drop repeated ids rather than reject the whole file.
	seen := make(map[string]bool, len(orders))
	out := orders[:0]
	for _, o := range orders {
		if o.ID == "" || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		out = append(out, o)
	}
	return out, nil
}

// ── filtering ─────────────────────────────────────────────────────────────────

// Criteria selects orders from the history. Zero fields do not filter.
type Criteria struct {
	// Name matches customer names case-insensitively by substring.
	Name string
	// From and To bound CreatedAt, both inclusive.
	From *time.Time
	To   *time.Time
}

// Filter is the pure projection behind Store.Filter. It never modifies orders
// and keeps their relative order.
func Filter(orders []order.Order, c Criteria) []order.Order {
	needle := strings.ToLower(c.Name)
	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if needle != "" && !strings.Contains(strings.ToLower(o.CustomerName), needle) {
			continue
		}
		if c.From != nil && o.CreatedAt.Before(*c.From) {
			continue
		}
		if c.To != nil && o.CreatedAt.After(*c.To) {
			continue
		}
		out = append(out, o.Clone())
	}
	return out
}
