// SPDX-License-Identifier: BSD-3-Clause

// Package combo implements simultaneous-key combos: suppressing individual
// member presses that arrive within a combo's timeout window and
// dispatching a single output action instead, with longest-match
// resolution when combos share a prefix of positions.
package combo
