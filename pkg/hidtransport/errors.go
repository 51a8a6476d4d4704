// SPDX-License-Identifier: BSD-3-Clause

package hidtransport

import "errors"

var (
	// ErrDisconnected indicates the transport has no active host connection;
	// the caller should drop the report rather than retry it.
	ErrDisconnected = errors.New("hidtransport: disconnected")
	// ErrEndpointBusy indicates a transient USB endpoint-busy condition.
	ErrEndpointBusy = errors.New("hidtransport: endpoint busy")
	// ErrDeviceNotFound indicates the backing HID gadget device file is absent.
	ErrDeviceNotFound = errors.New("hidtransport: device not found")
	// ErrWriteTimeout indicates a report write exceeded its deadline.
	ErrWriteTimeout = errors.New("hidtransport: write timeout")
)
