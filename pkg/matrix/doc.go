// SPDX-License-Identifier: BSD-3-Clause

// Package matrix drives a GPIO key matrix: strobing one output line at a
// time and sampling every input line, with per-cell debouncing, producing
// keycode.KeyEvent values the action engine consumes the same way whether
// they came from a local matrix, a split peripheral link, or a test fixture.
package matrix
