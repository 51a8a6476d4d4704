// SPDX-License-Identifier: BSD-3-Clause

package event

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Subject names for the event types the engine exchanges. Dotted,
// lowercase, namespaced by producer — the same convention the corpus uses
// for its own IPC subjects (host.state, asset.info, ...).
const (
	SubjectKeyEvent       = "rmk.key.event"
	SubjectEncoderTick    = "rmk.encoder.tick"
	SubjectBatteryLevel   = "rmk.battery.level"
	SubjectLedState       = "rmk.led.state"
	SubjectBleProfile     = "rmk.ble.profile"
	SubjectConnectionState = "rmk.connection.state"
	SubjectLayerState     = "rmk.layer.state"
	SubjectSplitUserEvent = "rmk.split.user"
	SubjectReport         = "rmk.report"
)

// Bus wraps an in-process NATS connection and hands out typed Publisher/
// Subscriber pairs over it. One Bus per process; every event type is
// assigned a channel flavor (MPSC or pub/sub) by the caller when it builds
// a Publisher/Subscriber, with the channel flavor fixed per event type at
// compile time.
type Bus struct {
	nc *nats.Conn
}

// NewBus wraps an established NATS connection (typically obtained from
// service/eventbus's embedded server) as a Bus.
func NewBus(nc *nats.Conn) *Bus {
	return &Bus{nc: nc}
}

// Publisher publishes values of type E onto a subject. Publish never blocks
// the caller on a slow subscriber — NATS core publish is fire-and-forget;
// back-pressure (for MPSC semantics) is applied on the subscriber side by
// bounding the subscription's pending-message limit instead.
type Publisher[E any] struct {
	nc      *nats.Conn
	subject string
}

// Publish encodes and sends v. An encoding failure is a programmer error
// (E must be gob-encodable) and is returned rather than panicking, since
// unlike a capacity overflow it does not indicate a fixed, compile-time-
// knowable resource exhaustion.
func (p Publisher[E]) Publish(v E) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("event: encode %T: %w", v, err)
	}
	return p.nc.Publish(p.subject, buf.Bytes())
}

// TryPublish is an alias of Publish: the underlying NATS publish is already
// nonblocking, so there is no separate blocking variant to offer.
func (p Publisher[E]) TryPublish(v E) error { return p.Publish(v) }

// Subscriber receives values of type E. Exactly one Subscriber should be
// constructed per MPSC consumer; a pub/sub event type may have up to its
// configured subscriber cap.
type Subscriber[E any] struct {
	sub *nats.Subscription
	ch  chan *nats.Msg
}

// NextEvent blocks until a value is available, ctx is canceled, or the
// subscription is closed.
func (s *Subscriber[E]) NextEvent(ctx context.Context) (E, error) {
	var zero E
	select {
	case msg, ok := <-s.ch:
		if !ok {
			return zero, ErrSubscriptionClosed
		}
		var v E
		if err := gob.NewDecoder(bytes.NewReader(msg.Data)).Decode(&v); err != nil {
			return zero, fmt.Errorf("event: decode %T: %w", v, err)
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close releases the underlying NATS subscription.
func (s *Subscriber[E]) Close() error {
	return s.sub.Unsubscribe()
}

// MPSCPublisher returns a Publisher for a many-producer/single-consumer
// event type on subject.
func MPSCPublisher[E any](b *Bus, subject string) Publisher[E] {
	return Publisher[E]{nc: b.nc, subject: subject}
}

// MPSCSubscriber creates the single consumer-side subscription for an MPSC
// event type, with a bounded pending-message count: once publishers outrun
// the consumer by capacity messages, NATS slow-consumer limits kick in and
// further publishes to this subject are dropped rather than growing
// unbounded. Publishers are never made to wait.
func MPSCSubscriber[E any](b *Bus, subject string, capacity int) (*Subscriber[E], error) {
	ch := make(chan *nats.Msg, capacity)
	sub, err := b.nc.ChanSubscribe(subject, ch)
	if err != nil {
		return nil, fmt.Errorf("event: subscribe %s: %w", subject, err)
	}
	if err := sub.SetPendingLimits(capacity, -1); err != nil {
		return nil, fmt.Errorf("event: set pending limits %s: %w", subject, err)
	}
	return &Subscriber[E]{sub: sub, ch: ch}, nil
}

// Topic is a broadcast (pub/sub) event type with a compile-time-fixed
// subscriber cap: allocating a subscriber above the compile-time cap is a
// programmer error (panic at first use).
type Topic[E any] struct {
	bus       *Bus
	subject   string
	capacity  int
	maxSubs   int
	subsCount int
}

// NewTopic declares a broadcast event type on subject, with capacity
// pending messages buffered per subscriber and at most maxSubs live
// subscribers.
func NewTopic[E any](b *Bus, subject string, capacity, maxSubs int) *Topic[E] {
	return &Topic[E]{bus: b, subject: subject, capacity: capacity, maxSubs: maxSubs}
}

// Publisher returns the (shared, stateless) Publisher for this topic.
func (t *Topic[E]) Publisher() Publisher[E] {
	return Publisher[E]{nc: t.bus.nc, subject: t.subject}
}

// Subscribe creates a new independent subscription. Once a subscriber has
// capacity messages pending, NATS discards further incoming messages for it
// (counted as dropped on the subscription); the messages already buffered
// are kept, so a slow subscriber loses its newest messages, not its oldest.
func (t *Topic[E]) Subscribe() (*Subscriber[E], error) {
	if t.subsCount >= t.maxSubs {
		panic(fmt.Sprintf("event: subscriber cap exceeded for topic %s (max %d)", t.subject, t.maxSubs))
	}
	ch := make(chan *nats.Msg, t.capacity)
	sub, err := t.bus.nc.ChanSubscribe(t.subject, ch)
	if err != nil {
		return nil, fmt.Errorf("event: subscribe %s: %w", t.subject, err)
	}
	if err := sub.SetPendingLimits(t.capacity, -1); err != nil {
		return nil, fmt.Errorf("event: set pending limits %s: %w", t.subject, err)
	}
	t.subsCount++
	return &Subscriber[E]{sub: sub, ch: ch}, nil
}
