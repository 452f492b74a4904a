// Package receipt renders finalized orders as fixed-width thermal receipt
// text. Output depends only on the order and the template, never on the
// wall clock.
package receipt

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/georgemunganga/kasir-backend/internal/modules/order"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout renders timestamps the way id-ID locale clocks print them.
const DateLayout = "2/1/2006, 15.04.05"

// Template is the static part of every receipt.
type Template struct {
	BusinessName string
	Address      string
	Phone        string
	Employee     string
	Terminal     string
	ServiceMode  string
	Closing      string

	// Width is the paper width in characters.
	Width int
	// FeedLines blank lines are appended so the tear bar clears the text.
	FeedLines int
	// Location is the shop time zone used for the footer timestamp.
	Location *time.Location
}

// DefaultTemplate is the Gado-Gado Kaliurang counter receipt.
func DefaultTemplate() Template {
	return Template{
		BusinessName: "GADO-GADO KALIURANG",
		Address:      "Jl. Melati No. 44 - Malang",
		Phone:        "082337572700",
		Employee:     "Admin",
		Terminal:     "POS 1",
		ServiceMode:  "Makan di tempat",
		Closing:      "Terimakasih - Selamat Menikmati",
		Width:        32,
		FeedLines:    4,
		Location:     time.UTC,
	}
}

// Formatter turns orders into receipt text.
type Formatter struct {
	tpl Template
}

func NewFormatter(tpl Template) *Formatter {
	if tpl.Width <= 0 {
		tpl.Width = 32
	}
	if tpl.FeedLines < 0 {
		tpl.FeedLines = 0
	}
	if tpl.Location == nil {
		tpl.Location = time.UTC
	}
	return &Formatter{tpl: tpl}
}

func (f *Formatter) Template() Template { return f.tpl }

// Format renders o. Lines are printed in the order they were added to the
// cart; the notes block only appears when o.Notes is non-empty.
func (f *Formatter) Format(o order.Order) string {
	var sb strings.Builder
	for _, block := range f.blocks(o) {
		sb.WriteString(block)
	}
	return sb.String()
}

func (f *Formatter) blocks(o order.Order) []string {
	p := message.NewPrinter(language.Indonesian)
	rule := strings.Repeat("-", f.tpl.Width) + "\n"

	header := "\n" +
		f.tpl.BusinessName + "\n" +
		f.tpl.Address + "\n" +
		"Telp. " + f.tpl.Phone + "\n" +
		"\n" +
		"Karyawan: " + f.tpl.Employee + "\n" +
		"POS: " + f.tpl.Terminal + "\n" +
		"\n" +
		f.tpl.ServiceMode + "\n" +
		rule

	var items strings.Builder
	for _, l := range o.Lines {
		items.WriteString(f.row(l.MenuEntry.Name, rupiah(p, l.Subtotal())))
		items.WriteString(strconv.Itoa(l.Quantity) + " x " + rupiah(p, l.MenuEntry.UnitPrice) + "\n")
		items.WriteString("\n")
	}

	blocks := []string{header, items.String()}
	if o.Notes != "" {
		blocks = append(blocks, "Catatan: "+o.Notes+"\n")
	}

	totals := rule +
		f.row("Total", rupiah(p, o.TotalAmount)) +
		"\n" +
		f.row("Tunai", rupiah(p, o.TotalAmount)) +
		rule

	footer := f.tpl.Closing + "\n" +
		o.CreatedAt.In(f.tpl.Location).Format(DateLayout) + "\n" +
		strings.Repeat("\n", f.tpl.FeedLines)

	return append(blocks, totals, footer)
}

// row right-aligns value against the paper edge, keeping at least one space
// after label.
func (f *Formatter) row(label, value string) string {
	gap := f.tpl.Width - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value + "\n"
}

// Rupiah formats an amount with Indonesian digit grouping, e.g. Rp25.000.
func Rupiah(amount int64) string {
	return rupiah(message.NewPrinter(language.Indonesian), amount)
}

func rupiah(p *message.Printer, amount int64) string {
	return "Rp" + p.Sprintf("%d", amount)
}
