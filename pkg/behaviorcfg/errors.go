// SPDX-License-Identifier: BSD-3-Clause

package behaviorcfg

import "errors"

var (
	// ErrNoLayers indicates a keyboard.toml with no [[layer]] tables at all.
	ErrNoLayers = errors.New("behaviorcfg: at least one layer is required")
	// ErrLayerShapeMismatch indicates a layer's key grid doesn't match the
	// board's row/column pin counts.
	ErrLayerShapeMismatch = errors.New("behaviorcfg: layer key grid does not match board matrix dimensions")
	// ErrUnknownKeycode indicates a keymap or behavior entry named a
	// keycode alias ParseKeyCode does not recognize.
	ErrUnknownKeycode = errors.New("behaviorcfg: unknown keycode alias")
	// ErrLayerIndexOutOfRange indicates a layer-referencing field (default
	// layer, tri-layer, combo override layer) named a layer past the
	// configured layer count.
	ErrLayerIndexOutOfRange = errors.New("behaviorcfg: layer index out of range")
	// ErrTooManyMorseTaps indicates a MorseConfig entry's MaxTaps exceeds
	// what MorsePattern's bit width can address.
	ErrTooManyMorseTaps = errors.New("behaviorcfg: morse entry exceeds maximum taps per pattern")
	// ErrDuplicateMorseIndex indicates two MorseConfig entries claim the
	// same table index.
	ErrDuplicateMorseIndex = errors.New("behaviorcfg: duplicate morse table index")
	// ErrComboMembersOutOfRange indicates a combo names a "row,col" member
	// outside the board's matrix dimensions.
	ErrComboMembersOutOfRange = errors.New("behaviorcfg: combo member position out of range")
	// ErrComboTooFewMembers indicates a combo with fewer than two member
	// positions, which can never "chord".
	ErrComboTooFewMembers = errors.New("behaviorcfg: combo requires at least two member keys")
	// ErrInvalidPosition indicates a "row,col" string that didn't parse as
	// two non-negative integers.
	ErrInvalidPosition = errors.New("behaviorcfg: invalid row,col position")
	// ErrMacroSpaceExceeded indicates the flat macro bytecode table
	// exceeds macro.SpaceSize.
	ErrMacroSpaceExceeded = errors.New("behaviorcfg: macro bytecode exceeds available macro space")
	// ErrTooManyCombos indicates more combo entries than the live
	// keymap-editing protocol can address.
	ErrTooManyCombos = errors.New("behaviorcfg: too many combo entries")
)
