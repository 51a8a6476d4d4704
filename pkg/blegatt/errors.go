// SPDX-License-Identifier: BSD-3-Clause

package blegatt

import "errors"

var (
	// ErrAdapterNotFound indicates no powered Bluetooth adapter was found.
	ErrAdapterNotFound = errors.New("blegatt: no usable adapter found")
	// ErrNotConnected indicates a notify was attempted with no subscribed
	// central (CCCD not enabled) — the notify is dropped, not queued.
	ErrNotConnected = errors.New("blegatt: no subscriber for characteristic")
	// ErrServiceRegistration indicates the GATT application failed to
	// register with BlueZ.
	ErrServiceRegistration = errors.New("blegatt: service registration failed")
)
