// SPDX-License-Identifier: BSD-3-Clause

package split

import (
	"context"

	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/log"
)

// ModifierResetter clears a peripheral's local modifier register: the
// minimum behavior MessageResetPeripheral is defined to trigger.
type ModifierResetter interface {
	ResetModifiers()
}

// LedIndicatorSink receives a forwarded LED-indicator byte from the
// central so the peripheral can drive its own controllers.
type LedIndicatorSink interface {
	SetLedIndicator(byte uint8)
}

// LayerSink receives a forwarded active-layer byte from the central.
type LayerSink interface {
	SetActiveLayer(layer uint8)
}

// Peripheral is the non-central half of a split link: it scans its own
// matrix (out of this package's scope — the caller feeds KeyEvents in via
// PublishKey) and forwards them to the central, while applying whatever
// LED/layer/reset state the central pushes back.
type Peripheral struct {
	link  Link
	resetter ModifierResetter
	leds  LedIndicatorSink
	layer LayerSink
}

// NewPeripheral wires a Peripheral role atop an already-open link.
func NewPeripheral(link Link, resetter ModifierResetter, leds LedIndicatorSink, layer LayerSink) *Peripheral {
	return &Peripheral{link: link, resetter: resetter, leds: leds, layer: layer}
}

// PublishKey forwards a local matrix transition to the central.
func (p *Peripheral) PublishKey(ctx context.Context, ev keycode.KeyEvent) error {
	return p.link.WriteFrame(ctx, NewKeyFrame(ev.Pos.Row, ev.Pos.Col, ev.Pressed))
}

// PublishBattery forwards a battery percentage reading to the central.
func (p *Peripheral) PublishBattery(ctx context.Context, pct uint8) error {
	return p.link.WriteFrame(ctx, NewBatteryLevelFrame(pct))
}

// PublishUser forwards an opaque user packet to the central.
func (p *Peripheral) PublishUser(ctx context.Context, pkt UserPacket) error {
	return p.link.WriteFrame(ctx, NewUserFrame(pkt))
}

// Run reads frames from the central and applies them until ctx is
// canceled or the link closes.
func (p *Peripheral) Run(ctx context.Context) error {
	logger := log.GetGlobalLogger().With("component", "split-peripheral")
	for {
		f, err := p.link.ReadFrame(ctx)
		if err != nil {
			return err
		}
		switch f.Kind {
		case MessageLedIndicator:
			if p.leds != nil {
				p.leds.SetLedIndicator(f.LedIndicator)
			}
		case MessageLayerUpdate:
			if p.layer != nil {
				p.layer.SetActiveLayer(f.Layer)
			}
		case MessageResetPeripheral:
			if p.resetter != nil {
				p.resetter.ResetModifiers()
			}
		case MessageConnectionState:
			logger.DebugContext(ctx, "central connection state changed", "connected", f.ConnectionState)
		default:
			logger.DebugContext(ctx, "unexpected frame from central", "kind", f.Kind)
		}
	}
}
