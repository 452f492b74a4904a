package printer

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies why an attempt ended in StateFailed.
type FailureKind string

const (
	KindUnsupportedPlatform FailureKind = "unsupported_platform"
	KindNoDeviceSelected    FailureKind = "no_device_selected"
	KindConnection          FailureKind = "connection"
	KindTransmission        FailureKind = "transmission"
	KindCancelled           FailureKind = "cancelled"
	KindTimeout             FailureKind = "timeout"
)

// Failure is the error of a failed attempt. Compare with errors.Is against
// the Err* values below.
type Failure struct {
	Kind FailureKind
	Err  error
}

var (
	ErrUnsupportedPlatform = &Failure{Kind: KindUnsupportedPlatform}
	ErrNoDeviceSelected    = &Failure{Kind: KindNoDeviceSelected}
	ErrConnection          = &Failure{Kind: KindConnection}
	ErrTransmission        = &Failure{Kind: KindTransmission}
	ErrCancelled           = &Failure{Kind: KindCancelled}
	ErrTimeout             = &Failure{Kind: KindTimeout}
)

var summaries = map[FailureKind]string{
	KindUnsupportedPlatform: "bluetooth is not supported on this host",
	KindNoDeviceSelected:    "no printer was selected",
	KindConnection:          "cannot connect to printer",
	KindTransmission:        "cannot send receipt to printer",
	KindCancelled:           "print cancelled",
	KindTimeout:             "print timed out",
}

// Messages shown to the cashier.
var cashierMessages = map[FailureKind]string{
	KindUnsupportedPlatform: "Bluetooth tidak didukung di perangkat ini",
	KindNoDeviceSelected:    "Printer tidak dipilih",
	KindConnection:          "Gagal terhubung ke printer Bluetooth. Pastikan printer menyala dan terhubung.",
	KindTransmission:        "Gagal mengirim struk ke printer",
	KindCancelled:           "Pencetakan dibatalkan",
	KindTimeout:             "Printer tidak merespons",
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return summaries[f.Kind]
	}
	return fmt.Sprintf("%s: %v", summaries[f.Kind], f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Err == nil && t.Kind == f.Kind
}

// CashierMessage is the human-readable text for the counter display.
func (f *Failure) CashierMessage() string { return cashierMessages[f.Kind] }

// classify wraps err as kind unless the wait ended because ctx was cancelled
// or ran out of time.
func classify(ctx context.Context, kind FailureKind, err error) *Failure {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		kind = KindCancelled
	}
	return &Failure{Kind: kind, Err: err}
}

var errAttemptUsed = errors.New("attempt already ran")
