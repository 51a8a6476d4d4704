// SPDX-License-Identifier: BSD-3-Clause

// Package macro is the bytecode interpreter for recorded key-tap/press/
// release/delay/ASCII-expand sequences. Each macro runs on its own
// goroutine so a delay opcode suspends only that macro, never the keyboard
// engine or any other in-flight macro.
package macro
