// SPDX-License-Identifier: BSD-3-Clause

// Package split implements the wire protocol and role state machines that
// let a split keyboard's peripheral half forward key events (and other
// state) to the central half, and let the central push connection/layer
// state back.
//
// A Frame is encoded with a small stable fixed-width binary codec (pkg/split/codec.go)
// and carried over either a length-prefixed UART link or two BLE GATT
// characteristics (pkg/split/link.go). The central role
// (pkg/split/central.go) runs one PeripheralManager per physical
// peripheral; the peripheral role (pkg/split/peripheral.go) is the
// opposite end of the same link.
package split
