// SPDX-License-Identifier: BSD-3-Clause

// Package morse is the unified tap/hold/tap-dance decision engine: the
// held-key buffer, the per-key pattern state machine, and the chordal-
// hold/permissive-hold/hold-on-other-press/unilateral-tap/flow-tap
// interaction rules that decide how a morse key's press-release timeline
// resolves into a dispatched Action.
//
// Per-HeldKey state transitions (Pressed/Holding/Released/
// ProcessedButReleaseNotReportedYet) are driven through a
// github.com/qmuntal/stateless machine, the same library the corpus uses
// for its own state machines (pkg/state.FSM). The machine rejects a
// misordered press/release/timeout trigger with an error; the resolver
// discards that error, so a rejected trigger leaves the entry's state
// unchanged.
package morse
