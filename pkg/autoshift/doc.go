// SPDX-License-Identifier: BSD-3-Clause

// Package autoshift implements auto-shift: holding a plain key past a
// timeout resolves it as Shift+key instead of key, by synthesizing a
// TapHold KeyAction and handing it to the same morse resolver ordinary
// tap-hold keys use.
package autoshift
