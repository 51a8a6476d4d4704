// SPDX-License-Identifier: BSD-3-Clause

// Package action is the composite action executor: the modifier register,
// the 6-key rollover slot set, one-shot modifier/layer bookkeeping, the
// Tabber group, and the dispatch point combos/forks/macros/auto-shift feed
// into. It is the single place that turns a resolved Action into HID
// report mutations.
//
// Engine implements pkg/morse's Dispatcher so morse-resolved taps/holds
// flow through exactly the same press/release handlers as directly-bound
// keys — there is no separate "morse output" code path.
package action
