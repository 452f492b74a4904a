package order

import (
	"time"

	"github.com/georgemunganga/kasir-backend/internal/modules/catalog"
)

// Line is a single row of a cart or a finalized order.
type Line struct {
	MenuEntry catalog.Entry `json:"menuEntry"`
	Quantity  int           `json:"quantity"`
}

// Subtotal is quantity × unit price.
func (l Line) Subtotal() int64 {
	return int64(l.Quantity) * l.MenuEntry.UnitPrice
}

// Order is a finalized cart. It is created once at checkout and never
// modified afterwards; callers that hand an Order out should pass a Clone.
type Order struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Lines        []Line    `json:"lines"`
	TotalAmount  int64     `json:"totalAmount"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Clone returns a copy of o that shares no line storage with it.
func (o Order) Clone() Order {
	o.Lines = cloneLines(o.Lines)
	return o
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func sumLines(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Cart is the API view of the in-progress order.
type Cart struct {
	CustomerName string `json:"customerName"`
	Notes        string `json:"notes"`
	Lines        []Line `json:"lines"`
	Total        int64  `json:"total"`
}

// AddLineRequest is the payload for adding one unit of a menu entry.
type AddLineRequest struct {
	MenuEntryID string `json:"menu_entry_id"`
}

// UpdateDetailsRequest sets the draft customer name and notes. Nil fields
// are left as they are.
type UpdateDetailsRequest struct {
	CustomerName *string `json:"customer_name,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// CheckoutRequest finalizes the cart. Empty fields fall back to the draft
// values held by the cart.
type CheckoutRequest struct {
	CustomerName string `json:"customer_name,omitempty"`
	Notes        string `json:"notes,omitempty"`
}
