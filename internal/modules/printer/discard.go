package printer

import (
	"context"
	"errors"
)

var errNoRadio = errors.New("printer channel disabled")

// Discard is the channel for hosts without a radio. Every attempt fails as
// an unsupported platform.
type Discard struct{}

func (Discard) Available() error { return errNoRadio }

func (Discard) Discover(context.Context, DiscoveryFilter) (Device, error) {
	return Device{}, errNoRadio
}

func (Discard) Connect(context.Context, Device) error { return errNoRadio }

func (Discard) LocateWriteTarget(context.Context, string, string) error { return errNoRadio }

func (Discard) Write(context.Context, []byte) error { return errNoRadio }

func (Discard) Release() error { return nil }
