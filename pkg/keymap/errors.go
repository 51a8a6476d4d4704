// SPDX-License-Identifier: BSD-3-Clause

package keymap

import "errors"

// ErrOutOfBounds indicates a (layer,row,col) or (layer,encoder) coordinate
// outside the keymap's compile-time dimensions.
var ErrOutOfBounds = errors.New("keymap: coordinate out of bounds")
