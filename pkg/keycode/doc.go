// SPDX-License-Identifier: BSD-3-Clause

// Package keycode defines the value types shared by every layer of the
// keyboard behavior engine: HID keycodes, modifier combinations, the
// resolved-action sum type, per-position key actions, morse tables, and the
// raw key events that feed the pipeline.
//
// These are plain value types with no goroutines or channels of their own;
// every other package (keymap, morse, action, combo, fork, macro, via,
// storage) builds on top of them. Numbering follows the USB HID usage tables
// for the keyboard/keypad page, with an internal range reserved for RMK-only
// behaviors (layer ops, one-shot, macros) above the HID usage space.
package keycode
