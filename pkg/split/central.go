// SPDX-License-Identifier: BSD-3-Clause

package split

import (
	"context"
	"fmt"
	"time"

	"github.com/qmuntal/stateless"

	"github.com/rmkfw/rmk/pkg/id"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/log"
)

// connState is a PeripheralManager's link lifecycle.
type connState string

const (
	connDisconnected connState = "disconnected"
	connConnecting   connState = "connecting"
	connConnected    connState = "connected"
	connBackoff      connState = "backoff"
)

type connTrigger string

const (
	trigLinkOpened connTrigger = "link_opened"
	trigLinkLost   connTrigger = "link_lost"
	trigRetry      connTrigger = "retry"
	trigGiveUp     connTrigger = "give_up"
)

const (
	// initialBackoff and maxBackoff bound the central's reconnect retry
	// loop at exponential backoff capped at ~500ms.
	initialBackoff = 20 * time.Millisecond
	maxBackoff     = 500 * time.Millisecond
)

// KeyEventSink receives a central-space KeyEvent translated from a
// peripheral's local (row, col), typically the key-event bus publisher.
type KeyEventSink interface {
	PublishKeyEvent(keycode.KeyEvent)
}

// Dialer reopens a Link for one peripheral, e.g. re-opening the UART device
// file or reconnecting a BLE central role. Central never retains transport
// specifics; Dialer is its only transport dependency.
type Dialer func(ctx context.Context) (Link, error)

// PeripheralManager owns one peripheral's bidirectional link on the
// central side: reads frames and republishes translated KeyEvents, and
// pushes LayerUpdate/ConnectionState back down whenever central-side state
// changes. One instance per physical peripheral.
type PeripheralManager struct {
	peripheralID string
	rowOffset    uint8
	colOffset    uint8

	dial Dialer
	sink KeyEventSink

	link Link
	sm   *stateless.StateMachine

	lastLayer     uint8
	lastConnected bool
}

// NewPeripheralManager builds a manager for one peripheral. rowOffset/
// colOffset remap the peripheral's local matrix positions into the
// central's unified position space before publishing.
func NewPeripheralManager(peripheralID string, rowOffset, colOffset uint8, dial Dialer, sink KeyEventSink) *PeripheralManager {
	pm := &PeripheralManager{peripheralID: peripheralID, rowOffset: rowOffset, colOffset: colOffset, dial: dial, sink: sink}
	pm.sm = stateless.NewStateMachine(connDisconnected)
	pm.sm.Configure(connDisconnected).
		Permit(trigLinkOpened, connConnected).
		Permit(trigRetry, connBackoff)
	pm.sm.Configure(connConnected).Permit(trigLinkLost, connBackoff)
	pm.sm.Configure(connBackoff).
		Permit(trigLinkOpened, connConnected).
		PermitReentry(trigRetry).
		Permit(trigGiveUp, connDisconnected)
	return pm
}

// Run dials, reads, and reconnects until ctx is canceled. It is the single
// long-running task per peripheral on the central side.
func (pm *PeripheralManager) Run(ctx context.Context) error {
	logger := log.GetGlobalLogger().With("component", "split-central", "peripheral", pm.peripheralID)
	backoff := initialBackoff

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		link, err := pm.dial(ctx)
		if err != nil {
			logger.DebugContext(ctx, "dial failed, backing off", "err", err, "backoff", backoff)
			if err := pm.sm.FireCtx(ctx, trigRetry); err != nil {
				return fmt.Errorf("split: central fsm: %w", err)
			}
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}

		pm.link = link
		if err := pm.sm.FireCtx(ctx, trigLinkOpened); err != nil {
			link.Close()
			return fmt.Errorf("split: central fsm: %w", err)
		}
		backoff = initialBackoff
		logger.InfoContext(ctx, "peripheral link established")

		// Resend current state on (re)connect.
		_ = link.WriteFrame(ctx, NewConnectionStateFrame(pm.lastConnected))
		_ = link.WriteFrame(ctx, NewLayerUpdateFrame(pm.lastLayer))

		pm.readLoop(ctx, link, logger)
		_ = pm.sm.FireCtx(ctx, trigLinkLost)
	}
}

func (pm *PeripheralManager) readLoop(ctx context.Context, link Link, logger interface {
	DebugContext(context.Context, string, ...any)
}) {
	for {
		f, err := link.ReadFrame(ctx)
		if err != nil {
			link.Close()
			return
		}
		pm.handleFrame(f, logger)
	}
}

func (pm *PeripheralManager) handleFrame(f Frame, logger interface {
	DebugContext(context.Context, string, ...any)
}) {
	switch f.Kind {
	case MessageKey:
		ev := keycode.KeyEvent{
			Pos:       keycode.Position{Row: f.Key.Row + pm.rowOffset, Col: f.Key.Col + pm.colOffset},
			Pressed:   f.Key.Pressed,
			Timestamp: keycode.NowMs(),
		}
		pm.sink.PublishKeyEvent(ev)
	case MessageBatteryLevel, MessageUser:
		// not forwarded: PeripheralManager hands only key events to its
		// sink and drops these here.
	default:
		logger.DebugContext(context.Background(), "unexpected frame from peripheral", "kind", f.Kind)
	}
}

// PushLayerUpdate notifies this peripheral of a central-side layer change,
// remembering the value so a reconnect resends it.
func (pm *PeripheralManager) PushLayerUpdate(ctx context.Context, layer uint8) error {
	pm.lastLayer = layer
	if pm.link == nil {
		return nil
	}
	return pm.link.WriteFrame(ctx, NewLayerUpdateFrame(layer))
}

// PushConnectionState notifies this peripheral of a central-side BLE/USB
// connection change, remembering the value so a reconnect resends it.
func (pm *PeripheralManager) PushConnectionState(ctx context.Context, connected bool) error {
	pm.lastConnected = connected
	if pm.link == nil {
		return nil
	}
	return pm.link.WriteFrame(ctx, NewConnectionStateFrame(connected))
}

// PushLedIndicator forwards host LED state to the peripheral.
func (pm *PeripheralManager) PushLedIndicator(ctx context.Context, leds uint8) error {
	if pm.link == nil {
		return nil
	}
	return pm.link.WriteFrame(ctx, NewLedIndicatorFrame(leds))
}

// EnsurePeripheralID returns configured unchanged if set, otherwise loads
// (creating on first boot) a persistent UUID for peripheral slot idx under
// dataDir. A peripheral with no administrator-assigned label still logs
// under a stable identity across restarts, so reconnects are traceable in
// the central's logs even on boards whose config omits peripheral names.
func EnsurePeripheralID(dataDir string, idx int, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	return id.GetOrCreatePersistentID(fmt.Sprintf("peripheral-%d.uuid", idx), dataDir)
}

func nextBackoff(b time.Duration) time.Duration {
	b *= 2
	if b > maxBackoff {
		return maxBackoff
	}
	return b
}
