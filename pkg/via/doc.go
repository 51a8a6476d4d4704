// SPDX-License-Identifier: BSD-3-Clause

// Package via implements the VIA/Vial host keymap-editing protocol: a
// 32-byte request/response dispatch table carried over a USB or BLE HID
// characteristic. It reads and writes a live pkg/keymap.KeyMap, macro
// buffer, combo/fork/morse tables, issuing the same notifications a
// storage-backed SetActionAt call would so every live edit persists.
//
// The VIA keycode encoding (pkg/via/keycode_convert.go) is a fixed
// bidirectional mapping between the 16-bit wire keycode and a
// pkg/keycode.KeyAction; Vial's combo/morse/fork CRUD and unlock
// challenge/response live in pkg/via/vial.go and pkg/via/unlock.go.
package via
