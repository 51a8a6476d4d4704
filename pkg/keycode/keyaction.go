// SPDX-License-Identifier: BSD-3-Clause

package keycode

// KeyActionKind tags the variant of a KeyAction, the per-position keymap
// entry.
type KeyActionKind uint8

const (
	KeyActionNo KeyActionKind = iota
	KeyActionTransparent
	KeyActionSingle
	KeyActionTap
	KeyActionTapHold
	KeyActionMorse
)

// KeyAction is the per-position keymap entry: a sum type of No, Transparent,
// a Single immediate action, a Tap (auto-release after a short delay), a
// TapHold pair resolved by the morse engine, or an index into the morse
// table for a full multi-tap pattern.
type KeyAction struct {
	Kind       KeyActionKind
	Action     Action       // KeyActionSingle, KeyActionTap
	Tap        Action       // KeyActionTapHold
	Hold       Action       // KeyActionTapHold
	Profile    MorseProfile // KeyActionTapHold
	MorseIndex uint8        // KeyActionMorse
}

// KANo is the keymap entry producing no action.
var KANo = KeyAction{Kind: KeyActionNo}

// KATransparent is the keymap entry that falls through to a lower layer.
var KATransparent = KeyAction{Kind: KeyActionTransparent}

// KASingle wraps an Action dispatched immediately on press and release.
func KASingle(a Action) KeyAction { return KeyAction{Kind: KeyActionSingle, Action: a} }

// KATap wraps an Action that is pressed and auto-released shortly after.
func KATap(a Action) KeyAction { return KeyAction{Kind: KeyActionTap, Action: a} }

// KATapHold builds a tap-hold entry resolved by the morse engine using
// profile's hold/gap timeouts and mode.
func KATapHold(tap, hold Action, profile MorseProfile) KeyAction {
	return KeyAction{Kind: KeyActionTapHold, Tap: tap, Hold: hold, Profile: profile}
}

// KAMorse indexes a full morse table entry (tap-dance with more than two
// outcomes).
func KAMorse(idx uint8) KeyAction { return KeyAction{Kind: KeyActionMorse, MorseIndex: idx} }

// IsMorseLike reports whether this entry is resolved through the morse
// buffer rather than dispatched immediately.
func (ka KeyAction) IsMorseLike() bool {
	return ka.Kind == KeyActionTapHold || ka.Kind == KeyActionMorse
}
