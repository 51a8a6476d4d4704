// SPDX-License-Identifier: BSD-3-Clause

package splitsvc

import (
	"context"
	"fmt"

	"github.com/arunsworld/nursery"
	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/event"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/pkg/split"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*Central)(nil)

// PeripheralSpec describes one peripheral the central role manages.
type PeripheralSpec struct {
	ID        string
	RowOffset uint8
	ColOffset uint8
	Dial      split.Dialer
}

// Central runs one PeripheralManager per configured peripheral, fanning
// their translated KeyEvents onto the key-event bus subject. It does not
// subscribe to layer or connection state, so no LayerUpdate or
// ConnectionState is pushed to the peripherals.
type Central struct {
	serviceName string
	peripherals []PeripheralSpec
	dataDir     string
}

// NewCentral builds the central-role service from a static peripheral list
// (behaviorcfg-loaded). dataDir backs the persistent peripheral IDs
// split.EnsurePeripheralID assigns to any PeripheralSpec left with a blank
// ID, so unlabeled peripherals still log under a stable identity across
// restarts.
func NewCentral(serviceName string, peripherals []PeripheralSpec, dataDir string) *Central {
	return &Central{serviceName: serviceName, peripherals: peripherals, dataDir: dataDir}
}

// Name implements service.Service.
func (c *Central) Name() string { return c.serviceName }

// busSink adapts event.Publisher[keycode.KeyEvent] onto split.KeyEventSink.
type busSink struct{ pub event.Publisher[keycode.KeyEvent] }

func (s busSink) PublishKeyEvent(ev keycode.KeyEvent) { _ = s.pub.Publish(ev) }

// Run connects to the bus and runs one PeripheralManager per configured
// peripheral concurrently via nursery, matching the corpus's fan-out
// pattern for a fixed set of sibling tasks.
func (c *Central) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", c.serviceName)

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("splitsvc: connect: %w", err)
	}
	defer nc.Close()

	bus := event.NewBus(nc)
	pub := event.MPSCPublisher[keycode.KeyEvent](bus, event.SubjectKeyEvent)
	sink := busSink{pub: pub}

	managers := make([]*split.PeripheralManager, len(c.peripherals))
	for i, spec := range c.peripherals {
		peripheralID, err := split.EnsurePeripheralID(c.dataDir, i, spec.ID)
		if err != nil {
			return fmt.Errorf("splitsvc: peripheral %d id: %w", i, err)
		}
		managers[i] = split.NewPeripheralManager(peripheralID, spec.RowOffset, spec.ColOffset, spec.Dial, sink)
	}

	logger.InfoContext(ctx, "split central starting", "peripherals", len(managers))
	return nursery.RunConcurrentlyWithContext(ctx, peripheralJobs(managers)...)
}

func peripheralJobs(managers []*split.PeripheralManager) []nursery.ConcurrentJob {
	jobs := make([]nursery.ConcurrentJob, len(managers))
	for i, m := range managers {
		m := m
		jobs[i] = func(ctx context.Context, errChan chan error) {
			errChan <- m.Run(ctx)
		}
	}
	return jobs
}
