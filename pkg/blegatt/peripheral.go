// SPDX-License-Identifier: BSD-3-Clause

package blegatt

import (
	"fmt"
	"sync"

	"github.com/muka/go-bluetooth/api/service"
	"github.com/muka/go-bluetooth/bluez/profile/adapter"
	"github.com/muka/go-bluetooth/bluez/profile/gatt"

	"github.com/rmkfw/rmk/pkg/log"
)

// Well-known 16-bit service UUIDs.
const (
	ServiceBattery    = "180F"
	ServiceDeviceInfo = "180A"
	ServiceHID        = "1812"
	ServiceSplit      = "ec00" // vendor-specific, rmk-assigned
	ServiceVial       = "ec10" // vendor-specific, rmk-assigned
)

// Characteristic is the narrow surface pkg/hidtransport, pkg/via, and
// pkg/split each get for one GATT characteristic: push a value out as a
// notification, or receive values a central writes in.
type Characteristic interface {
	Notify(value []byte) error
	OnWrite(fn func(value []byte))
}

// char wraps a go-bluetooth service characteristic, tracking whether a
// central has subscribed (CCCD enabled) so Notify can report ErrNotConnected
// instead of silently dropping.
type char struct {
	mu        sync.Mutex
	gc        *service.Char
	subscribed bool
	onWrite   func([]byte)
}

func (c *char) Notify(value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.subscribed {
		return ErrNotConnected
	}
	return c.gc.WriteValue(value, nil)
}

func (c *char) OnWrite(fn func(value []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onWrite = fn
}

// Peripheral owns the single BlueZ GATT application this process registers.
// One Peripheral per device; services/characteristics are added before
// Start.
type Peripheral struct {
	adapterID string
	a         *adapter.Adapter1
	app       *service.App
	chars     map[string]*char
}

// New discovers a powered local adapter named adapterID (e.g. "hci0") and
// prepares an empty GATT application on it.
func New(adapterID string) (*Peripheral, error) {
	a, err := adapter.GetAdapter(adapterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdapterNotFound, err)
	}
	app, err := service.NewApp(service.AppOptions{AdapterID: adapterID})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceRegistration, err)
	}
	return &Peripheral{adapterID: adapterID, a: a, app: app, chars: make(map[string]*char)}, nil
}

// AddCharacteristic registers characteristic charUUID under service
// serviceUUID, with the given notify/write GATT flags, and returns the
// handle callers use to push/receive bytes.
func (p *Peripheral) AddCharacteristic(serviceUUID, charUUID string, notify, writable bool) (Characteristic, error) {
	svc, err := p.app.GetService(serviceUUID)
	if err != nil {
		svc, err = p.app.NewService(serviceUUID)
		if err != nil {
			return nil, fmt.Errorf("%w: service %s: %w", ErrServiceRegistration, serviceUUID, err)
		}
		if err := p.app.AddService(svc); err != nil {
			return nil, fmt.Errorf("%w: add service %s: %w", ErrServiceRegistration, serviceUUID, err)
		}
	}

	gc, err := svc.NewChar(charUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: char %s: %w", ErrServiceRegistration, charUUID, err)
	}

	var flags []string
	if notify {
		flags = append(flags, gatt.FlagCharacteristicNotify)
	}
	if writable {
		flags = append(flags, gatt.FlagCharacteristicWrite, gatt.FlagCharacteristicWriteWithoutResponse)
	}
	gc.Properties.Flags = flags

	c := &char{gc: gc}
	gc.OnWrite(func(value []byte) ([]byte, error) {
		c.mu.Lock()
		fn := c.onWrite
		c.mu.Unlock()
		if fn != nil {
			fn(value)
		}
		return nil, nil
	})
	gc.OnStartNotify(func() { c.mu.Lock(); c.subscribed = true; c.mu.Unlock() })
	gc.OnStopNotify(func() { c.mu.Lock(); c.subscribed = false; c.mu.Unlock() })

	if err := svc.AddChar(gc); err != nil {
		return nil, fmt.Errorf("%w: add char %s: %w", ErrServiceRegistration, charUUID, err)
	}
	p.chars[serviceUUID+"/"+charUUID] = c
	return c, nil
}

// Start registers the GATT application with BlueZ and begins advertising.
func (p *Peripheral) Start() error {
	logger := log.GetGlobalLogger().With("component", "blegatt")
	if err := p.app.Run(); err != nil {
		return fmt.Errorf("%w: %w", ErrServiceRegistration, err)
	}
	logger.Info("BLE GATT peripheral started", "adapter", p.adapterID)
	return nil
}

// Stop unregisters the application and releases the adapter.
func (p *Peripheral) Stop() error {
	return p.app.Close()
}
