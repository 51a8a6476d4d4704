// SPDX-License-Identifier: BSD-3-Clause

package keycode

import "fmt"

// KeyCode is a 16-bit tagged enumeration of HID keyboard usages, mouse
// buttons/axes, media/system usages, internal RMK keys, and macro-index
// keys. The value range selects the class (see the base constants below);
// within a class the low bits are a dense index or, for HID usages, the
// literal USB usage ID.
type KeyCode uint16

// Class ranges. HID usages occupy the low range directly (matching the USB
// HID keyboard/keypad usage table) so a KeyCode can be truncated to a byte
// and sent as-is in a boot keyboard report.
const (
	// KCNo is the null keycode: "no event", used to pad report slots.
	KCNo KeyCode = 0x0000

	hidKeyboardBase  KeyCode = 0x0000 // 0x00-0xE7: HID keyboard/keypad usages, modifiers included.
	mouseButtonBase  KeyCode = 0x0100 // Mouse buttons.
	mouseMoveBase    KeyCode = 0x0110 // Mouse movement/wheel directions.
	mediaBase        KeyCode = 0x0180 // Consumer-control (media) usages.
	systemBase       KeyCode = 0x01C0 // Generic desktop system-control usages.
	internalBase     KeyCode = 0x0200 // RMK-internal keys: layer ops, profile switch, repeat.
	macroBase        KeyCode = 0x7700 // Macro trigger keys, matching VIA's 0x7700-0x77FF band.
	rmkVendorBase    KeyCode = 0x7C00 // RMK-specific VIA vendor band, 0x7C00-0x7C7F.
)

// HID keyboard/keypad usages (USB HID Usage Tables, page 0x07). Only the
// subset the engine and its tests reference by name is enumerated; any
// other byte in [0x00, 0xDD] is a valid KeyCode even without a name here.
const (
	KCA KeyCode = hidKeyboardBase + 0x04
	KCB KeyCode = hidKeyboardBase + 0x05
	KCC KeyCode = hidKeyboardBase + 0x06
	KCD KeyCode = hidKeyboardBase + 0x07
	KCE KeyCode = hidKeyboardBase + 0x08
	KCF KeyCode = hidKeyboardBase + 0x09
	KCG KeyCode = hidKeyboardBase + 0x0A
	KCH KeyCode = hidKeyboardBase + 0x0B
	KCI KeyCode = hidKeyboardBase + 0x0C
	KCJ KeyCode = hidKeyboardBase + 0x0D
	KCK KeyCode = hidKeyboardBase + 0x0E
	KCL KeyCode = hidKeyboardBase + 0x0F
	KCM KeyCode = hidKeyboardBase + 0x10
	KCN KeyCode = hidKeyboardBase + 0x11
	KCO KeyCode = hidKeyboardBase + 0x12
	KCP KeyCode = hidKeyboardBase + 0x13
	KCQ KeyCode = hidKeyboardBase + 0x14
	KCR KeyCode = hidKeyboardBase + 0x15
	KCS KeyCode = hidKeyboardBase + 0x16
	KCT KeyCode = hidKeyboardBase + 0x17
	KCU KeyCode = hidKeyboardBase + 0x18
	KCV KeyCode = hidKeyboardBase + 0x19
	KCW KeyCode = hidKeyboardBase + 0x1A
	KCX KeyCode = hidKeyboardBase + 0x1B
	KCY KeyCode = hidKeyboardBase + 0x1C
	KCZ KeyCode = hidKeyboardBase + 0x1D

	KC1 KeyCode = hidKeyboardBase + 0x1E
	KC2 KeyCode = hidKeyboardBase + 0x1F
	KC3 KeyCode = hidKeyboardBase + 0x20
	KC4 KeyCode = hidKeyboardBase + 0x21
	KC5 KeyCode = hidKeyboardBase + 0x22
	KC6 KeyCode = hidKeyboardBase + 0x23
	KC7 KeyCode = hidKeyboardBase + 0x24
	KC8 KeyCode = hidKeyboardBase + 0x25
	KC9 KeyCode = hidKeyboardBase + 0x26
	KC0 KeyCode = hidKeyboardBase + 0x27

	KCEnter     KeyCode = hidKeyboardBase + 0x28
	KCEscape    KeyCode = hidKeyboardBase + 0x29
	KCBackspace KeyCode = hidKeyboardBase + 0x2A
	KCTab       KeyCode = hidKeyboardBase + 0x2B
	KCSpace     KeyCode = hidKeyboardBase + 0x2C
	KCMinus     KeyCode = hidKeyboardBase + 0x2D
	KCEqual     KeyCode = hidKeyboardBase + 0x2E
	KCLeftCtrl  KeyCode = hidKeyboardBase + 0xE0
	KCLeftShift KeyCode = hidKeyboardBase + 0xE1
	KCLeftAlt   KeyCode = hidKeyboardBase + 0xE2
	KCLeftGui   KeyCode = hidKeyboardBase + 0xE3
	KCRightCtrl KeyCode = hidKeyboardBase + 0xE4
	KCRightShift KeyCode = hidKeyboardBase + 0xE5
	KCRightAlt  KeyCode = hidKeyboardBase + 0xE6
	KCRightGui  KeyCode = hidKeyboardBase + 0xE7

	KCF1  KeyCode = hidKeyboardBase + 0x3A
	KCF2  KeyCode = hidKeyboardBase + 0x3B
	KCF3  KeyCode = hidKeyboardBase + 0x3C
	KCF4  KeyCode = hidKeyboardBase + 0x3D
	KCF5  KeyCode = hidKeyboardBase + 0x3E
	KCF6  KeyCode = hidKeyboardBase + 0x3F
	KCF7  KeyCode = hidKeyboardBase + 0x40
	KCF8  KeyCode = hidKeyboardBase + 0x41
	KCF9  KeyCode = hidKeyboardBase + 0x42
	KCF10 KeyCode = hidKeyboardBase + 0x43
	KCF11 KeyCode = hidKeyboardBase + 0x44
	KCF12 KeyCode = hidKeyboardBase + 0x45

	KCUp    KeyCode = hidKeyboardBase + 0x52
	KCDown  KeyCode = hidKeyboardBase + 0x51
	KCLeft  KeyCode = hidKeyboardBase + 0x50
	KCRight KeyCode = hidKeyboardBase + 0x4F
)

// Mouse report keycodes: buttons and directional movement/wheel deltas.
// Movement keycodes are a direction, not an absolute displacement; the
// mouse acceleration curve (pkg/mouse) turns repeated presses into a
// growing per-tick delta.
const (
	KCMouseBtn1 KeyCode = mouseButtonBase + iota
	KCMouseBtn2
	KCMouseBtn3
	KCMouseBtn4
	KCMouseBtn5
)

const (
	KCMouseUp KeyCode = mouseMoveBase + iota
	KCMouseDown
	KCMouseLeft
	KCMouseRight
	KCMouseWheelUp
	KCMouseWheelDown
	KCMousePanLeft
	KCMousePanRight
	KCMouseAccel0
	KCMouseAccel1
	KCMouseAccel2
)

// Consumer-control (media) and generic-desktop (system) usages.
const (
	KCMediaPlayPause KeyCode = mediaBase + iota
	KCMediaNext
	KCMediaPrev
	KCMediaStop
	KCMediaVolUp
	KCMediaVolDown
	KCMediaMute
)

const (
	KCSystemPower KeyCode = systemBase + iota
	KCSystemSleep
	KCSystemWake
)

// Internal RMK keys: layer toggles, profile switch, repeat, and the like.
// These never reach a HID report; the keyboard engine intercepts them in
// the action layer.
const (
	KCLayerToggleBase KeyCode = internalBase + iota*16 // reserved block, 16 layers max addressed this way
	KCBleProfile0
	KCBleProfile1
	KCBleProfile2
	KCBleProfile3
	KCRepeat
	KCBootloader
	KCOutputUsb
	KCOutputBle
)

// KCMacro returns the macro-trigger keycode for macro index i, in VIA's
// 0x7700-0x77FF band.
func KCMacro(i uint8) KeyCode { return macroBase + KeyCode(i) }

// MacroIndex extracts the macro index from a macro-trigger keycode. ok is
// false if kc is not in the macro band.
func MacroIndex(kc KeyCode) (idx uint8, ok bool) {
	if kc < macroBase || kc > macroBase+0xFF {
		return 0, false
	}
	return uint8(kc - macroBase), true
}

// IsModifierKey reports whether kc is one of the eight HID modifier usages.
func (kc KeyCode) IsModifierKey() bool {
	return kc >= KCLeftCtrl && kc <= KCRightGui
}

// IsMouseKey reports whether kc belongs to the mouse button or movement
// range.
func (kc KeyCode) IsMouseKey() bool {
	return kc >= mouseButtonBase && kc < mediaBase
}

// IsMediaKey reports whether kc is a consumer-control usage.
func (kc KeyCode) IsMediaKey() bool {
	return kc >= mediaBase && kc < systemBase
}

// IsSystemKey reports whether kc is a generic-desktop system-control usage.
func (kc KeyCode) IsSystemKey() bool {
	return kc >= systemBase && kc < internalBase
}

// ModifierBit returns the ModifierCombination bit corresponding to a
// modifier KeyCode, or 0 if kc is not a modifier key.
func (kc KeyCode) ModifierBit() ModifierCombination {
	switch kc {
	case KCLeftCtrl:
		return ModLeftCtrl
	case KCLeftShift:
		return ModLeftShift
	case KCLeftAlt:
		return ModLeftAlt
	case KCLeftGui:
		return ModLeftGui
	case KCRightCtrl:
		return ModRightCtrl
	case KCRightShift:
		return ModRightShift
	case KCRightAlt:
		return ModRightAlt
	case KCRightGui:
		return ModRightGui
	default:
		return 0
	}
}

// String implements fmt.Stringer for debug logging; it does not attempt to
// name every HID usage, only the classes and a handful of common keys.
func (kc KeyCode) String() string {
	switch {
	case kc == KCNo:
		return "No"
	case kc.IsModifierKey():
		return fmt.Sprintf("Mod(0x%02X)", uint16(kc))
	case kc.IsMouseKey():
		return fmt.Sprintf("Mouse(0x%03X)", uint16(kc))
	case kc.IsMediaKey():
		return fmt.Sprintf("Media(0x%03X)", uint16(kc))
	case kc.IsSystemKey():
		return fmt.Sprintf("System(0x%03X)", uint16(kc))
	case kc >= macroBase && kc <= macroBase+0xFF:
		idx, _ := MacroIndex(kc)
		return fmt.Sprintf("Macro(%d)", idx)
	case kc >= internalBase && kc < macroBase:
		return fmt.Sprintf("Internal(0x%03X)", uint16(kc))
	default:
		return fmt.Sprintf("KC(0x%02X)", uint16(kc))
	}
}
