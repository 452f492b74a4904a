package printer

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoder turns receipt text into the bytes written to the printer.
type Encoder func(text string) ([]byte, error)

// NewEncoder returns the encoder for a printer code page. Supported names are
// utf-8, cp437 and windows-1252. Runes a code page cannot represent are
// replaced rather than failing the print.
func NewEncoder(name string) (Encoder, error) {
	var cm *charmap.Charmap
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return func(text string) ([]byte, error) { return []byte(text), nil }, nil
	case "cp437", "ibm437":
		cm = charmap.CodePage437
	case "windows-1252", "cp1252":
		cm = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unknown printer encoding %q", name)
	}
	return func(text string) ([]byte, error) {
		b, err := encoding.ReplaceUnsupported(cm.NewEncoder()).Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode receipt: %w", err)
		}
		return b, nil
	}, nil
}
