// SPDX-License-Identifier: BSD-3-Clause

// Package keyboardsvc wraps pkg/action's Engine as a service.Service: it
// subscribes to the key-event bus (matrix, encoder, and split-forwarded
// presses alike, since they all arrive as keycode.KeyEvent), owns the
// keymap/morse/combo/fork/macro/mouse dispatch chain, and publishes
// assembled HID reports onto the report bus for service/hidsvc to pick up.
package keyboardsvc
