// SPDX-License-Identifier: BSD-3-Clause

// Package encodersvc wraps pkg/encoder.Reader as a service.Service task: one
// concurrent poll loop per configured rotary encoder, translating completed
// detents into synthetic KeyEvents the action engine resolves like any
// other position, plus a lightweight broadcast tick for other consumers
// (e.g. a status display).
package encodersvc
