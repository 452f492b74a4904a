// Package ble drives BLE thermal receipt printers through the host's
// Bluetooth adapter.
package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/georgemunganga/kasir-backend/internal/modules/printer"
	"tinygo.org/x/bluetooth"
)

// radio is the part of *bluetooth.Adapter the channel drives.
type radio interface {
	Enable() error
	Scan(callback func(*bluetooth.Adapter, bluetooth.ScanResult)) error
	StopScan() error
	Connect(address bluetooth.Address, params bluetooth.ConnectionParams) (bluetooth.Device, error)
}

// stopRetry spaces StopScan calls made before the scan has registered.
const stopRetry = 10 * time.Millisecond

// Channel implements printer.Channel on a Bluetooth adapter. It holds at most
// one connected printer.
type Channel struct {
	adapter radio

	enableOnce sync.Once
	enableErr  error

	mu        sync.Mutex
	address   *bluetooth.Address
	device    *bluetooth.Device
	writeChar *bluetooth.DeviceCharacteristic
}

// New returns a channel on adapter, or on the default adapter when nil.
func New(adapter *bluetooth.Adapter) *Channel {
	if adapter == nil {
		adapter = bluetooth.DefaultAdapter
	}
	return newChannel(adapter)
}

func newChannel(r radio) *Channel {
	return &Channel{adapter: r}
}

func (c *Channel) Available() error {
	c.enableOnce.Do(func() {
		if err := c.adapter.Enable(); err != nil {
			c.enableErr = fmt.Errorf("enable bluetooth adapter: %w", err)
		}
	})
	return c.enableErr
}

// Discover scans until the first advertisement matching filter. The scan
// stops when a device is found or ctx ends, and Discover returns only once
// the scan has ended.
func (c *Channel) Discover(ctx context.Context, filter printer.DiscoveryFilter) (printer.Device, error) {
	if err := ctx.Err(); err != nil {
		return printer.Device{}, err
	}
	var service *bluetooth.UUID
	if filter.ServiceUUID != "" {
		u, err := bluetooth.ParseUUID(filter.ServiceUUID)
		if err != nil {
			return printer.Device{}, fmt.Errorf("parse service uuid: %w", err)
		}
		service = &u
	}

	found := make(chan bluetooth.ScanResult, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
			if !matches(r.Address.String(), r.AdvertisementPayload, filter, service) {
				return
			}
			select {
			case found <- r:
			default:
			}
		})
	}()

	select {
	case r := <-found:
		c.stopScan(done)
		return c.selectDevice(r), nil
	case err := <-done:
		select {
		case r := <-found:
			return c.selectDevice(r), nil
		default:
		}
		if err == nil {
			err = printer.ErrNoDevice
		}
		return printer.Device{}, fmt.Errorf("scan: %w", err)
	case <-ctx.Done():
		c.stopScan(done)
		return printer.Device{}, ctx.Err()
	}
}

// stopScan ends a running Scan and waits for it to return. StopScan fails
// until Scan has registered, so it is retried until the scan is gone.
func (c *Channel) stopScan(done <-chan error) error {
	ticker := time.NewTicker(stopRetry)
	defer ticker.Stop()
	for {
		if err := c.adapter.StopScan(); err == nil {
			return <-done
		}
		select {
		case err := <-done:
			return err
		case <-ticker.C:
		}
	}
}

func (c *Channel) selectDevice(r bluetooth.ScanResult) printer.Device {
	addr := r.Address
	c.mu.Lock()
	c.address = &addr
	c.mu.Unlock()
	return printer.Device{ID: addr.String(), Name: r.LocalName()}
}

// advertisement is the part of a scan result the filter reads.
type advertisement interface {
	LocalName() string
	HasServiceUUID(bluetooth.UUID) bool
}

func matches(address string, adv advertisement, filter printer.DiscoveryFilter, service *bluetooth.UUID) bool {
	if filter.Address != "" {
		return strings.EqualFold(address, filter.Address)
	}
	if service != nil && adv.HasServiceUUID(*service) {
		return true
	}
	return filter.NamePrefix != "" && strings.HasPrefix(adv.LocalName(), filter.NamePrefix)
}

type connectResult struct {
	device bluetooth.Device
	err    error
}

func (c *Channel) Connect(ctx context.Context, device printer.Device) error {
	c.mu.Lock()
	addr := c.address
	c.mu.Unlock()
	if addr == nil || !strings.EqualFold(addr.String(), device.ID) {
		return fmt.Errorf("device %s was not discovered", device.ID)
	}

	res := make(chan connectResult, 1)
	go func() {
		d, err := c.adapter.Connect(*addr, bluetooth.ConnectionParams{})
		res <- connectResult{device: d, err: err}
	}()

	select {
	case r := <-res:
		if r.err != nil {
			return fmt.Errorf("connect %s: %w", device.ID, r.err)
		}
		c.mu.Lock()
		c.device = &r.device
		c.mu.Unlock()
		return nil
	case <-ctx.Done():
		// drop a connection that completes after the caller gave up
		go func() {
			if r := <-res; r.err == nil {
				r.device.Disconnect()
			}
		}()
		return ctx.Err()
	}
}

func (c *Channel) LocateWriteTarget(ctx context.Context, service, characteristic string) error {
	svcUUID, err := bluetooth.ParseUUID(service)
	if err != nil {
		return fmt.Errorf("parse service uuid: %w", err)
	}
	charUUID, err := bluetooth.ParseUUID(characteristic)
	if err != nil {
		return fmt.Errorf("parse characteristic uuid: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return errNotConnected
	}

	services, err := c.device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return fmt.Errorf("discover services: %w", err)
	}
	if len(services) == 0 {
		return fmt.Errorf("printer service %s not found", service)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{charUUID})
	if err != nil {
		return fmt.Errorf("discover characteristics: %w", err)
	}
	if len(chars) == 0 {
		return fmt.Errorf("write characteristic %s not found", characteristic)
	}
	c.writeChar = &chars[0]
	return ctx.Err()
}

// Write sends the whole payload as one GATT write.
func (c *Channel) Write(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeChar == nil {
		return errNotConnected
	}
	// no acknowledged write on linux; the call returning counts as the ack
	n, err := c.writeChar.WriteWithoutResponse(payload)
	if err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	if n != len(payload) {
		return fmt.Errorf("write receipt: short write %d of %d bytes", n, len(payload))
	}
	return nil
}

func (c *Channel) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	device := c.device
	c.address, c.device, c.writeChar = nil, nil, nil
	if device == nil {
		return nil
	}
	if err := device.Disconnect(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

var errNotConnected = errors.New("printer not connected")

var _ printer.Channel = (*Channel)(nil)
