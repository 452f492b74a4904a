package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/kasir-backend/internal/modules/catalog"
	"github.com/google/uuid"
)

// ErrEmptyOrder is returned by Finalize when the cart has no lines.
var ErrEmptyOrder = errors.New("order must contain at least one item")

// DefaultCustomerName is recorded when checkout happens without a name.
const DefaultCustomerName = "Pelanggan"

// Builder is the mutable in-progress cart. It keeps at most one line per
// menu entry id, in first-added order. A Builder is not safe for concurrent
// use; the checkout service guards it.
type Builder struct {
	lines        []Line
	customerName string
	notes        string

	now   func() time.Time
	newID func(time.Time) string
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the timestamp source used by Finalize.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator overrides how Finalize names new orders.
func WithIDGenerator(fn func(time.Time) string) BuilderOption {
	return func(b *Builder) { b.newID = fn }
}

// NewBuilder returns an empty cart.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{now: time.Now, newID: GenerateID}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddLine adds one unit of entry, appending a new line if the entry is not
// in the cart yet.
func (b *Builder) AddLine(entry catalog.Entry) {
	if i := b.index(entry.ID); i >= 0 {
		b.lines[i].Quantity++
		return
	}
	b.lines = append(b.lines, Line{MenuEntry: entry, Quantity: 1})
}

// DecrementLine removes one unit; a line at quantity 1 is dropped. Unknown
// ids are ignored.
func (b *Builder) DecrementLine(entryID string) {
	i := b.index(entryID)
	if i < 0 {
		return
	}
	if b.lines[i].Quantity > 1 {
		b.lines[i].Quantity--
		return
	}
	b.removeAt(i)
}

// RemoveLine drops the line whatever its quantity. Unknown ids are ignored.
func (b *Builder) RemoveLine(entryID string) {
	if i := b.index(entryID); i >= 0 {
		b.removeAt(i)
	}
}

// Total is the sum of quantity × unit price over the current lines.
func (b *Builder) Total() int64 { return sumLines(b.lines) }

// Lines returns a copy of the current lines.
func (b *Builder) Lines() []Line { return cloneLines(b.lines) }

func (b *Builder) Len() int { return len(b.lines) }

func (b *Builder) SetCustomerName(name string) { b.customerName = name }
func (b *Builder) SetNotes(notes string)       { b.notes = notes }
func (b *Builder) CustomerName() string        { return b.customerName }
func (b *Builder) Notes() string               { return b.notes }

// Cart returns the current draft as an API view.
func (b *Builder) Cart() Cart {
	lines := b.Lines()
	if lines == nil {
		lines = []Line{}
	}
	return Cart{
		CustomerName: b.customerName,
		Notes:        b.notes,
		Lines:        lines,
		Total:        b.Total(),
	}
}

// Finalize snapshots the cart into an Order and resets the builder. It does
// not persist the order; the caller appends it to the history store.
func (b *Builder) Finalize(customerName, notes string) (*Order, error) {
	if len(b.lines) == 0 {
		return nil, ErrEmptyOrder
	}

	name := strings.TrimSpace(customerName)
	if name == "" {
		name = DefaultCustomerName
	}

	createdAt := b.now()
	o := &Order{
		ID:           b.newID(createdAt),
		CustomerName: name,
		Lines:        cloneLines(b.lines),
		TotalAmount:  b.Total(),
		Notes:        notes,
		CreatedAt:    createdAt,
	}

	b.Reset()
	return o, nil
}

// Reset empties the cart and clears the draft customer name and notes.
func (b *Builder) Reset() {
	b.lines = nil
	b.customerName = ""
	b.notes = ""
}

func (b *Builder) index(entryID string) int {
	for i, l := range b.lines {
		if l.MenuEntry.ID == entryID {
			return i
		}
	}
	return -1
}

func (b *Builder) removeAt(i int) {
	b.lines = append(b.lines[:i:i], b.lines[i+1:]...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// GenerateID creates an order id: ORD-<unix millis>-XXXXXXXX
func GenerateID(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%d-%s", t.UnixMilli(), suffix)
}
