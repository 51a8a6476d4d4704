// SPDX-License-Identifier: BSD-3-Clause

// Package eventbus hosts the embedded NATS server every other service
// connects to as its pkg/event Bus transport. Adapted from the corpus's
// service/ipc: same embedded-server lifecycle (construct, start, wait for
// readiness, lame-duck shutdown on cancellation) with the JetStream/
// persistence surface removed — the keyboard engine's event bus is
// fire-and-forget pub/sub and MPSC, not a durable message log.
package eventbus
