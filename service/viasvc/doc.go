// SPDX-License-Identifier: BSD-3-Clause

// Package viasvc wraps pkg/via.Service as a service.Service task, running
// one request/response loop per configured host-protocol transport (a USB
// hidraw device, a BLE GATT characteristic) concurrently until canceled.
package viasvc
