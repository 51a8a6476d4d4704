// SPDX-License-Identifier: BSD-3-Clause

package via

import "github.com/rmkfw/rmk/pkg/keycode"

// rmkVendorToVia and rmkVendorFromVia carry the small set of internal
// keycodes that have no natural place in VIA's HID-usage-shaped encoding,
// assigned slots in VIA's 0x7C00-0x7C7F vendor band (mirroring upstream
// VIA/Vial's own convention of reserving that band for firmware-specific
// keys, e.g. GraveEscape at 0x7C16 and RepeatKey at 0x7C79 in the keycode
// mapping this package's test suite is grounded on).
var rmkVendorToVia = map[keycode.KeyCode]uint16{
	keycode.KCBootloader:  0x7C00,
	keycode.KCRepeat:      0x7C79,
	keycode.KCOutputUsb:   0x7C60,
	keycode.KCOutputBle:   0x7C61,
	keycode.KCBleProfile0: 0x7C62,
	keycode.KCBleProfile1: 0x7C63,
	keycode.KCBleProfile2: 0x7C64,
	keycode.KCBleProfile3: 0x7C65,
}

var rmkVendorFromVia = inverseVendorMap()

func inverseVendorMap() map[uint16]keycode.KeyCode {
	m := make(map[uint16]keycode.KeyCode, len(rmkVendorToVia))
	for kc, code := range rmkVendorToVia {
		m[code] = kc
	}
	return m
}

// toViaKeyCode encodes a plain keycode.KeyCode (never a layer/modifier/
// macro action, those are handled at the Action level) as a VIA 16-bit
// code: the macro band, the RMK vendor band, or the raw HID usage.
func toViaKeyCode(kc keycode.KeyCode) uint16 {
	if idx, ok := keycode.MacroIndex(kc); ok {
		return 0x7700 | uint16(idx)
	}
	if code, ok := rmkVendorToVia[kc]; ok {
		return code
	}
	return uint16(kc)
}

func fromViaKeyCode(code uint16) keycode.KeyCode {
	if kc, ok := rmkVendorFromVia[code]; ok {
		return kc
	}
	return keycode.KeyCode(code)
}

// ToViaKeyCode encodes a KeyAction as VIA's 16-bit per-position keycode.
// Unrepresentable actions (one-shot key, tabber, tri-layer sentinels, Tap
// entries) encode as 0x0000, the same fallback VIA itself uses for any
// firmware feature it has no wire encoding for.
func ToViaKeyCode(ka keycode.KeyAction) uint16 {
	switch ka.Kind {
	case keycode.KeyActionNo:
		return 0x0000
	case keycode.KeyActionTransparent:
		return 0x0001
	case keycode.KeyActionMorse:
		return 0x5700 | uint16(ka.MorseIndex)
	case keycode.KeyActionSingle:
		return toViaAction(ka.Action)
	case keycode.KeyActionTapHold:
		return toViaTapHold(ka.Tap, ka.Hold)
	default:
		return 0x0000
	}
}

func toViaAction(a keycode.Action) uint16 {
	switch a.Kind {
	case keycode.ActionKey:
		return toViaKeyCode(a.Code)
	case keycode.ActionKeyWithModifier:
		// Masked to 5 bits for the same reason as the mod-tap band below:
		// the WithModifier band only spans 0x0100-0x1FFF.
		return uint16(a.Mods&0x1F)<<8 | toViaKeyCode(a.Code)
	case keycode.ActionLayerToggleOnly:
		return 0x5200 | uint16(a.Layer)
	case keycode.ActionLayerOn:
		return 0x5220 | uint16(a.Layer)
	case keycode.ActionDefaultLayer:
		return 0x5240 | uint16(a.Layer)
	case keycode.ActionLayerToggle:
		return 0x5260 | uint16(a.Layer)
	case keycode.ActionOneShotLayer:
		if a.Layer >= 16 {
			return 0x0000
		}
		return 0x5280 | uint16(a.Layer)
	case keycode.ActionOneShotModifier:
		return 0x52A0 | uint16(a.Mods&0x1F)
	case keycode.ActionTriggerMacro:
		return 0x7700 | uint16(a.Index)
	default:
		return 0x0000
	}
}

func toViaTapHold(tap, hold keycode.Action) uint16 {
	if tap.Kind != keycode.ActionKey {
		return 0x0000
	}
	switch hold.Kind {
	case keycode.ActionModifier:
		// The mod-tap band only carries 5 modifier bits (left ctrl/shift/
		// alt/gui plus right ctrl); right shift/alt/gui held alone can't be
		// distinguished on this band and fold away under the mask.
		return 0x2000 | uint16(hold.Mods&0x1F)<<8 | uint16(tap.Code)
	case keycode.ActionLayerOn:
		if hold.Layer > 0xF {
			return 0x0000
		}
		return 0x4000 | uint16(hold.Layer)<<8 | uint16(tap.Code)
	default:
		return 0x0000
	}
}

// FromViaKeyCode decodes VIA's 16-bit per-position keycode into a
// KeyAction, the inverse of ToViaKeyCode. Unknown codes decode to KANo,
// matching spec's "unknown codes map to No with a log" policy (the caller
// logs; this function stays pure).
func FromViaKeyCode(code uint16) keycode.KeyAction {
	switch {
	case code == 0x0000:
		return keycode.KANo
	case code == 0x0001:
		return keycode.KATransparent
	case code >= 0x0002 && code <= 0x00FF:
		return keycode.KASingle(keycode.Key(fromViaKeyCode(code)))
	case code >= 0x0100 && code <= 0x1FFF:
		kc := fromViaKeyCode(code & 0x00FF)
		mods := keycode.ModifierCombination(code >> 8)
		return keycode.KASingle(keycode.KeyWithModifier(kc, mods))
	case code >= 0x2000 && code <= 0x3FFF:
		kc := fromViaKeyCode(code & 0x00FF)
		mods := keycode.ModifierCombination((code >> 8) & 0x1F)
		return keycode.KATapHold(keycode.Key(kc), keycode.Modifier(mods), keycode.DefaultMorseProfile())
	case code >= 0x4000 && code <= 0x4FFF:
		layer := uint8((code >> 8) & 0xF)
		kc := fromViaKeyCode(code & 0x00FF)
		return keycode.KATapHold(keycode.Key(kc), keycode.LayerOn(layer), keycode.DefaultMorseProfile())
	case code >= 0x5200 && code <= 0x521F:
		return keycode.KASingle(keycode.LayerToggleOnly(uint8(code & 0x0F)))
	case code >= 0x5220 && code <= 0x523F:
		return keycode.KASingle(keycode.LayerOn(uint8(code & 0x0F)))
	case code >= 0x5240 && code <= 0x525F:
		return keycode.KASingle(keycode.DefaultLayer(uint8(code & 0x0F)))
	case code >= 0x5260 && code <= 0x527F:
		return keycode.KASingle(keycode.LayerToggle(uint8(code & 0x0F)))
	case code >= 0x5280 && code <= 0x529F:
		return keycode.KASingle(keycode.OneShotLayer(uint8(code & 0x0F)))
	case code >= 0x52A0 && code <= 0x52BF:
		return keycode.KASingle(keycode.OneShotModifier(keycode.ModifierCombination(code & 0x1F)))
	case code >= 0x5700 && code <= 0x57FF:
		return keycode.KAMorse(uint8(code & 0xFF))
	case code >= 0x7700 && code <= 0x77FF:
		return keycode.KASingle(keycode.TriggerMacro(uint8(code & 0xFF)))
	default:
		if kc, ok := rmkVendorFromVia[code]; ok {
			return keycode.KASingle(keycode.Key(kc))
		}
		return keycode.KANo
	}
}
