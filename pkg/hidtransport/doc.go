// SPDX-License-Identifier: BSD-3-Clause

// Package hidtransport implements the per-transport HID report writers: a
// USB composite-gadget writer and a BLE GATT writer, both satisfying the
// same Writer interface so the keyboard engine never knows which transport
// (or both) is active.
//
// Writes are awaitable and return a transient error on disconnect; callers
// are expected to drop the report rather than queue it, keeping "no
// stale input" policy.
package hidtransport
