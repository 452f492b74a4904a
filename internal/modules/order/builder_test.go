package order

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/georgemunganga/kasir-backend/internal/modules/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gadoGado = catalog.Entry{ID: "makanan-2", Name: "Gado Gado", UnitPrice: 25000, Category: catalog.CategoryFood}
	esDawet  = catalog.Entry{ID: "minuman-3", Name: "Es Dawet", UnitPrice: 10000, Category: catalog.CategoryDrink}
	kopi     = catalog.Entry{ID: "minuman-7", Name: "Kopi Tubruk", UnitPrice: 10000, Category: catalog.CategoryDrink}
)

var fixedTime = time.Date(2026, 10, 18, 7, 30, 5, 0, time.UTC)

func newTestBuilder() *Builder {
	return NewBuilder(
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func(time.Time) string { return "ORD-TEST" }),
	)
}

func TestBuilderAddLine(t *testing.T) {
	b := newTestBuilder()
	b.AddLine(gadoGado)
	b.AddLine(esDawet)
	b.AddLine(gadoGado)

	lines := b.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, gadoGado.ID, lines[0].MenuEntry.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, esDawet.ID, lines[1].MenuEntry.ID)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, int64(60000), b.Total())
}

func TestBuilderDecrementLine(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Builder)
		entryID string
		want    []Line
	}{
		{
			name:    "decrementsQuantity",
			setup:   func(b *Builder) { b.AddLine(gadoGado); b.AddLine(gadoGado) },
			entryID: gadoGado.ID,
			want:    []Line{{MenuEntry: gadoGado, Quantity: 1}},
		},
		{
			name:    "removesLineAtOne",
			setup:   func(b *Builder) { b.AddLine(gadoGado); b.AddLine(esDawet) },
			entryID: gadoGado.ID,
			want:    []Line{{MenuEntry: esDawet, Quantity: 1}},
		},
		{
			name:    "absentLineIsNoop",
			setup:   func(b *Builder) { b.AddLine(esDawet) },
			entryID: kopi.ID,
			want:    []Line{{MenuEntry: esDawet, Quantity: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder()
			tt.setup(b)
			b.DecrementLine(tt.entryID)
			assert.Equal(t, tt.want, b.Lines())
		})
	}
}

func TestBuilderRemoveLine(t *testing.T) {
	b := newTestBuilder()
	b.AddLine(gadoGado)
	b.AddLine(gadoGado)
	b.AddLine(gadoGado)
	b.AddLine(kopi)

	b.RemoveLine(gadoGado.ID)
	assert.Equal(t, []Line{{MenuEntry: kopi, Quantity: 1}}, b.Lines())

	b.RemoveLine("missing")
	assert.Equal(t, []Line{{MenuEntry: kopi, Quantity: 1}}, b.Lines())
}

func TestBuilderRandomSequencesKeepInvariants(t *testing.T) {
	entries := []catalog.Entry{gadoGado, esDawet, kopi}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		b := newTestBuilder()
		for step := 0; step < 50; step++ {
			e := entries[rng.Intn(len(entries))]
			switch rng.Intn(3) {
			case 0:
				b.AddLine(e)
			case 1:
				b.DecrementLine(e.ID)
			case 2:
				b.RemoveLine(e.ID)
			}

			seen := map[string]bool{}
			var want int64
			for _, l := range b.Lines() {
				require.False(t, seen[l.MenuEntry.ID], "duplicate line for %s", l.MenuEntry.ID)
				require.GreaterOrEqual(t, l.Quantity, 1)
				seen[l.MenuEntry.ID] = true
				want += int64(l.Quantity) * l.MenuEntry.UnitPrice
			}
			require.Equal(t, want, b.Total())
		}
	}
}

func TestBuilderFinalizeEmpty(t *testing.T) {
	b := newTestBuilder()
	b.SetCustomerName("Budi")
	b.SetNotes("tanpa sambal")

	o, err := b.Finalize("Budi", "")
	assert.Nil(t, o)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Equal(t, "Budi", b.CustomerName())
	assert.Equal(t, "tanpa sambal", b.Notes())
	assert.Equal(t, 0, b.Len())
}

func TestBuilderFinalize(t *testing.T) {
	b := newTestBuilder()
	b.AddLine(gadoGado)
	b.AddLine(gadoGado)
	b.AddLine(esDawet)
	b.SetCustomerName("draft")
	b.SetNotes("draft notes")
	before := b.Total()

	o, err := b.Finalize("Budi", "")
	require.NoError(t, err)

	assert.Equal(t, "ORD-TEST", o.ID)
	assert.Equal(t, "Budi", o.CustomerName)
	assert.Equal(t, before, o.TotalAmount)
	assert.Equal(t, int64(60000), o.TotalAmount)
	assert.Equal(t, fixedTime, o.CreatedAt)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, gadoGado.ID, o.Lines[0].MenuEntry.ID)
	assert.Equal(t, esDawet.ID, o.Lines[1].MenuEntry.ID)

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, int64(0), b.Total())
	assert.Empty(t, b.CustomerName())
	assert.Empty(t, b.Notes())
}

func TestBuilderFinalizeDefaultsCustomerName(t *testing.T) {
	b := newTestBuilder()
	b.AddLine(kopi)

	o, err := b.Finalize("   ", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCustomerName, o.CustomerName)
}

func TestBuilderFinalizeSnapshotIsDetached(t *testing.T) {
	b := newTestBuilder()
	b.AddLine(gadoGado)

	o, err := b.Finalize("Ana", "")
	require.NoError(t, err)

	b.AddLine(gadoGado)
	b.AddLine(gadoGado)
	assert.Equal(t, 1, o.Lines[0].Quantity)

	clone := o.Clone()
	clone.Lines[0].Quantity = 9
	assert.Equal(t, 1, o.Lines[0].Quantity)
}

func TestGenerateID(t *testing.T) {
	a := GenerateID(fixedTime)
	b := GenerateID(fixedTime)

	assert.True(t, strings.HasPrefix(a, "ORD-1792308605000-"), a)
	assert.Len(t, a, len("ORD-1792308605000-")+8)
	assert.NotEqual(t, a, b)
}
