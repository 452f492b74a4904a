package order

import (
	"context"
	"fmt"
	"sync"

	"github.com/georgemunganga/kasir-backend/internal/modules/catalog"
)

// Recorder persists finalized orders. The history store implements it.
type Recorder interface {
	Append(ctx context.Context, o Order) error
}

// Service is the counter's cart and checkout logic.
type Service interface {
	// Cart returns the in-progress order.
	Cart(ctx context.Context) Cart

	// AddLine adds one unit of a menu entry to the cart.
	AddLine(ctx context.Context, req AddLineRequest) (Cart, error)

	// DecrementLine removes one unit of a menu entry, dropping the line at zero.
	DecrementLine(ctx context.Context, entryID string) Cart

	// RemoveLine drops a menu entry from the cart regardless of quantity.
	RemoveLine(ctx context.Context, entryID string) Cart

	// UpdateDetails sets the draft customer name and notes.
	UpdateDetails(ctx context.Context, req UpdateDetailsRequest) Cart

	// Checkout finalizes the cart and records the order in the history.
	Checkout(ctx context.Context, req CheckoutRequest) (*Order, error)
}

type service struct {
	mu       sync.Mutex
	builder  *Builder
	menu     catalog.Service
	recorder Recorder
}

// NewService creates the checkout service around a single active cart.
func NewService(menu catalog.Service, recorder Recorder, builder *Builder) Service {
	if builder == nil {
		builder = NewBuilder()
	}
	return &service{builder: builder, menu: menu, recorder: recorder}
}

func (s *service) Cart(ctx context.Context) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.Cart()
}

func (s *service) AddLine(ctx context.Context, req AddLineRequest) (Cart, error) {
	if req.MenuEntryID == "" {
		return Cart{}, fmt.Errorf("menu_entry_id is required")
	}
	entry, err := s.menu.Get(req.MenuEntryID)
	if err != nil {
		return Cart{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.builder.AddLine(entry)
	return s.builder.Cart(), nil
}

func (s *service) DecrementLine(ctx context.Context, entryID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builder.DecrementLine(entryID)
	return s.builder.Cart()
}

func (s *service) RemoveLine(ctx context.Context, entryID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builder.RemoveLine(entryID)
	return s.builder.Cart()
}

func (s *service) UpdateDetails(ctx context.Context, req UpdateDetailsRequest) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.CustomerName != nil {
		s.builder.SetCustomerName(*req.CustomerName)
	}
	if req.Notes != nil {
		s.builder.SetNotes(*req.Notes)
	}
	return s.builder.Cart()
}

func (s *service) Checkout(ctx context.Context, req CheckoutRequest) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, notes := req.CustomerName, req.Notes
	if name == "" {
		name = s.builder.CustomerName()
	}
	if notes == "" {
		notes = s.builder.Notes()
	}

	// Keep the draft so a failed write does not lose the customer's cart.
	saved := *s.builder
	saved.lines = s.builder.Lines()

	o, err := s.builder.Finalize(name, notes)
	if err != nil {
		return nil, err
	}
	if err := s.recorder.Append(ctx, o.Clone()); err != nil {
		*s.builder = saved
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return o, nil
}
