// SPDX-License-Identifier: BSD-3-Clause

// Package event is the typed event bus every producer/consumer task in the
// keyboard engine communicates through: key matrix events, encoder ticks,
// battery samples, LED-state changes, BLE-profile changes, and custom
// peripheral events.
//
// Two channel flavors are exposed, chosen per event type at construction
// time (the static, compile-time sizing the original firmware enforces
// with const generics becomes a constructor argument here):
//
//   - MPSC: one logical consumer, FIFO, bounded — used for ordered key
//     events whose order must not be disturbed. Publishing never waits for
//     the consumer; once the consumer's buffer is full, further messages
//     are dropped.
//   - Pub/Sub: many subscribers, bounded capacity per subscriber; a lagging
//     subscriber has newly arriving messages dropped once its buffer is
//     full (its oldest buffered messages are kept) rather than blocking the
//     publisher — used for state-change broadcasts.
//
// Both flavors are implemented over an embedded NATS server (one process,
// one in-memory transport), grounded on the corpus's service/ipc package:
// NATS core publish/subscribe gives FIFO ordering per subject, and its
// SlowConsumer pending limits on each subscription bound the buffering.
package event
