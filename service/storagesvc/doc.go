// SPDX-License-Identifier: BSD-3-Clause

// Package storagesvc wraps pkg/storage as a service.Service: it is the
// sole mutator of the on-disk record database, draining writes submitted
// by the rest of the engine over a buffered channel and loading every
// persisted table into the in-memory keymap/morse/combo/fork state before
// any other service starts consuming key events.
package storagesvc
