// SPDX-License-Identifier: BSD-3-Clause

// Package splitsvc wraps pkg/split's central PeripheralManager and
// peripheral Role as service.Service tasks, publishing translated key
// events onto the shared event bus; the central side forwards no
// layer/connection state to peripherals.
package splitsvc
