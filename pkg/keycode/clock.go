// SPDX-License-Identifier: BSD-3-Clause

package keycode

import "time"

// bootTime anchors the monotonic millisecond clock every KeyEvent.Timestamp
// is measured against; processes that need a shared clock domain (e.g. a
// split central and its peripherals, each running their own process) must
// instead timestamp centrally, since timestamps from
// different clock domains aren't comparable.
var bootTime = time.Now()

// NowMs returns the monotonic millisecond counter used for KeyEvent and
// HeldKey timing.
func NowMs() uint32 {
	return uint32(time.Since(bootTime).Milliseconds())
}
