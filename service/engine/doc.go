// SPDX-License-Identifier: BSD-3-Clause

// Package engine assembles and supervises every service a keyboard process
// runs: the in-process event bus, matrix/encoder scanning, the key-action
// engine, HID report delivery, split-link transport, persistent storage,
// the VIA protocol channel, LED indication, and battery polling. It owns
// the oversight supervision tree that restarts any of them on crash.
package engine
