// SPDX-License-Identifier: BSD-3-Clause

package splitsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/event"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/pkg/split"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*PeripheralRole)(nil)

const (
	initialPeripheralBackoff = 20 * time.Millisecond
	maxPeripheralBackoff     = 500 * time.Millisecond
)

func nextPeripheralBackoff(b time.Duration) time.Duration {
	b *= 2
	if b > maxPeripheralBackoff {
		return maxPeripheralBackoff
	}
	return b
}

// sleepOrDone waits out d unless ctx is canceled first, reporting which.
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// PeripheralRole runs the non-central side of a split board: it forwards
// locally scanned KeyEvents to the central over a split.Link and applies
// whatever LED/layer/reset state the central pushes back.
type PeripheralRole struct {
	serviceName string
	dial        split.Dialer
	resetter    split.ModifierResetter
	leds        split.LedIndicatorSink
	layer       split.LayerSink
}

// NewPeripheralRole builds the peripheral-role service. resetter/leds/layer
// may be nil if the board has no modifier register, LED controller, or
// layer indicator to drive.
func NewPeripheralRole(serviceName string, dial split.Dialer, resetter split.ModifierResetter, leds split.LedIndicatorSink, layer split.LayerSink) *PeripheralRole {
	return &PeripheralRole{serviceName: serviceName, dial: dial, resetter: resetter, leds: leds, layer: layer}
}

// Name implements service.Service.
func (p *PeripheralRole) Name() string { return p.serviceName }

// Run dials the split link, subscribes to locally published KeyEvents, and
// runs the forward/apply loop until ctx is canceled. A dial failure is
// retried with the same backoff schedule pkg/split's central side uses,
// since the peripheral has no supervisor-level reconnect logic of its own.
func (p *PeripheralRole) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", p.serviceName)

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("splitsvc: connect: %w", err)
	}
	defer nc.Close()

	bus := event.NewBus(nc)
	sub, err := event.MPSCSubscriber[keycode.KeyEvent](bus, event.SubjectKeyEvent, 32)
	if err != nil {
		return fmt.Errorf("splitsvc: subscribe: %w", err)
	}
	defer sub.Close()

	backoff := initialPeripheralBackoff
	for {
		link, err := p.dial(ctx)
		if err != nil {
			logger.WarnContext(ctx, "split link dial failed, retrying", "err", err, "backoff", backoff)
			if !sleepOrDone(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextPeripheralBackoff(backoff)
			continue
		}
		backoff = initialPeripheralBackoff
		logger.InfoContext(ctx, "split link established")

		role := split.NewPeripheral(link, p.resetter, p.leds, p.layer)

		errCh := make(chan error, 2)
		go func() { errCh <- role.Run(ctx) }()
		go func() { errCh <- forwardLocalKeys(ctx, sub, role) }()

		err = <-errCh
		link.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.WarnContext(ctx, "split link lost, reconnecting", "err", err)
	}
}

func forwardLocalKeys(ctx context.Context, sub *event.Subscriber[keycode.KeyEvent], role *split.Peripheral) error {
	for {
		ev, err := sub.NextEvent(ctx)
		if err != nil {
			return err
		}
		if err := role.PublishKey(ctx, ev); err != nil {
			return err
		}
	}
}
