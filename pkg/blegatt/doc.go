// SPDX-License-Identifier: BSD-3-Clause

// Package blegatt stands up the local BlueZ GATT peripheral (via BlueZ's
// D-Bus API, wrapped by github.com/muka/go-bluetooth) exposing the
// services the Bluetooth SIG defines: Battery (0x180F), Device Information
// (0x180A), HID (0x1812) with one characteristic per report class, a Vial
// characteristic, and a split service with two characteristics for
// central<->peripheral frames.
//
// This package owns the one BlueZ adapter/application registration per
// process; pkg/hidtransport, pkg/via, and pkg/split each get a
// Characteristic handle for the slice of the GATT tree they own, so none
// of them need to know about BlueZ directly.
package blegatt
