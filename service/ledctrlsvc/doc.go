// SPDX-License-Identifier: BSD-3-Clause

// Package ledctrlsvc drives a board's status LEDs from bus state: a layer
// indicator line reflecting the topmost active layer, and a status line
// that blinks while the battery level is at or below a configured
// threshold.
package ledctrlsvc
