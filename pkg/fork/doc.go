// SPDX-License-Identifier: BSD-3-Clause

// Package fork implements conditional press-time keycode rewriting: a
// Fork replaces its trigger keycode with an alternate depending on
// currently-held modifiers, evaluated only at press time.
package fork
