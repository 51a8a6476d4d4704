// SPDX-License-Identifier: BSD-3-Clause

// Package keymap implements the layered action lookup table: per-(layer,
// row, col) KeyActions, the active-layer stack, tri-layer auto-activation,
// and the per-position layer cache that makes a key's release resolve
// against the same layer its press did, regardless of intervening layer
// switches.
//
// The KeyMap is single-writer (the keyboard engine), multi-reader (the VIA
// service, the split reporter); the locking discipline is grounded on the
// corpus's pkg/state.FSM, which documents the same RWMutex-guarded
// single-writer shape for its state machines.
package keymap
