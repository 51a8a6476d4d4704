// SPDX-License-Identifier: BSD-3-Clause

// Package storage persists the engine's mutable configuration — keymap
// overrides, encoder bindings, macros, combos, forks, morse tables, the
// active BLE profile, connection type, and per-profile bond/CCCD info — as
// keyed records where the most recent write replaces the previous
// value. It stands in for the
// original firmware's sector-erased flash log: one bbolt database file,
// one bucket per record kind, a single mutator task reached only through a
// buffered write channel so the rest of the engine never blocks on a disk
// write.
package storage
