package printer

import (
	"context"
	"errors"
)

// GATT identifiers of the common BLE thermal printer profile.
const (
	ServiceUUID             = "000018f0-0000-1000-8000-00805f9b34fb"
	WriteCharacteristicUUID = "00002af1-0000-1000-8000-00805f9b34fb"
	DefaultNamePrefix       = "Printer"
)

// State is a step of a print attempt.
type State string

const (
	StateIdle         State = "idle"
	StateDiscovering  State = "discovering"
	StateConnecting   State = "connecting"
	StateReady        State = "ready"
	StateTransmitting State = "transmitting"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

// validTransitions defines the allowed moves of a print attempt.
var validTransitions = map[State][]State{
	StateIdle:         {StateDiscovering, StateFailed},
	StateDiscovering:  {StateConnecting, StateFailed},
	StateConnecting:   {StateReady, StateFailed},
	StateReady:        {StateTransmitting, StateFailed},
	StateTransmitting: {StateSucceeded, StateFailed},
	StateSucceeded:    {},
	StateFailed:       {},
}

// CanTransition returns true if the transition from current to next is valid.
func CanTransition(current, next State) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool { return len(validTransitions[s]) == 0 }

// Device is a printer found during discovery.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// DiscoveryFilter narrows discovery to printer-class devices. A device
// matches when it advertises ServiceUUID or its name starts with NamePrefix.
// A non-empty Address selects that device only.
type DiscoveryFilter struct {
	ServiceUUID string
	NamePrefix  string
	Address     string
}

func DefaultFilter() DiscoveryFilter {
	return DiscoveryFilter{ServiceUUID: ServiceUUID, NamePrefix: DefaultNamePrefix}
}

// ErrNoDevice is returned by Channel.Discover when no device was selected.
var ErrNoDevice = errors.New("no printer selected")

// Channel is the wireless capability a print attempt drives. Every step is
// a separate call so each can fail on its own. An implementation holds at
// most one session; Release drops it and must be safe to call at any time.
type Channel interface {
	// Available reports an error when the host has no usable radio.
	Available() error

	// Discover waits for a printer matching filter to be selected.
	Discover(ctx context.Context, filter DiscoveryFilter) (Device, error)

	// Connect opens a session with device.
	Connect(ctx context.Context, device Device) error

	// LocateWriteTarget finds the printer service and its write characteristic
	// on the connected device.
	LocateWriteTarget(ctx context.Context, service, characteristic string) error

	// Write sends payload in a single write and returns once it is acknowledged.
	Write(ctx context.Context, payload []byte) error

	// Release closes any session opened by Connect.
	Release() error
}

// Result is the outcome of one print attempt.
type Result struct {
	OrderID string      `json:"order_id,omitempty"`
	State   State       `json:"state"`
	Reason  FailureKind `json:"reason,omitempty"`
	Message string      `json:"message,omitempty"`
	Device  *Device     `json:"device,omitempty"`
	Trail   []State     `json:"trail"`
	Bytes   int         `json:"bytes,omitempty"`
	Err     error       `json:"-"`

	// ReleaseErr is set when the session could not be closed cleanly.
	ReleaseErr error `json:"-"`
}
