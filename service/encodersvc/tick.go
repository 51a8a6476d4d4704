// SPDX-License-Identifier: BSD-3-Clause

package encodersvc

// Tick is a lightweight broadcast of a completed encoder detent, published
// alongside the synthetic KeyEvent the action engine consumes — useful for
// a status display or diagnostics consumer that wants raw encoder activity
// without decoding it back out of KeyEvent's synthetic position encoding.
type Tick struct {
	Index     uint8
	Clockwise bool
}
