// SPDX-License-Identifier: BSD-3-Clause

package action

import "errors"

// ErrSlotsFull names the condition of a press arriving with all six keycode
// slots occupied; the press is dropped rather than evicting an already-held
// key. The engine neither returns nor logs this error when it drops a press.
var ErrSlotsFull = errors.New("action: keycode slots full, press dropped")
