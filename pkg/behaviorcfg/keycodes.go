// SPDX-License-Identifier: BSD-3-Clause

package behaviorcfg

import (
	"strings"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// keycodeAliases maps the upper-cased alias a keyboard.toml keymap entry
// spells out (e.g. "KC_A", "KC_LSFT") to its keycode.KeyCode. Only the
// subset keycode itself names is represented; anything absent is rejected
// at Load rather than silently falling back to KCNo.
var keycodeAliases = buildKeycodeAliases()

func buildKeycodeAliases() map[string]keycode.KeyCode {
	m := map[string]keycode.KeyCode{
		"KC_NO": keycode.KCNo,
	}
	letters := []keycode.KeyCode{
		keycode.KCA, keycode.KCB, keycode.KCC, keycode.KCD, keycode.KCE, keycode.KCF,
		keycode.KCG, keycode.KCH, keycode.KCI, keycode.KCJ, keycode.KCK, keycode.KCL,
		keycode.KCM, keycode.KCN, keycode.KCO, keycode.KCP, keycode.KCQ, keycode.KCR,
		keycode.KCS, keycode.KCT, keycode.KCU, keycode.KCV, keycode.KCW, keycode.KCX,
		keycode.KCY, keycode.KCZ,
	}
	for i, kc := range letters {
		m["KC_"+string(rune('A'+i))] = kc
	}
	digits := []keycode.KeyCode{
		keycode.KC1, keycode.KC2, keycode.KC3, keycode.KC4, keycode.KC5,
		keycode.KC6, keycode.KC7, keycode.KC8, keycode.KC9, keycode.KC0,
	}
	for i, kc := range digits {
		m["KC_"+string(rune('1'+i))] = kc
	}
	m["KC_0"] = keycode.KC0

	named := map[string]keycode.KeyCode{
		"KC_ENTER":     keycode.KCEnter,
		"KC_ESC":       keycode.KCEscape,
		"KC_BSPC":      keycode.KCBackspace,
		"KC_TAB":       keycode.KCTab,
		"KC_SPACE":     keycode.KCSpace,
		"KC_MINUS":     keycode.KCMinus,
		"KC_EQUAL":     keycode.KCEqual,
		"KC_LCTL":      keycode.KCLeftCtrl,
		"KC_LSFT":      keycode.KCLeftShift,
		"KC_LALT":      keycode.KCLeftAlt,
		"KC_LGUI":      keycode.KCLeftGui,
		"KC_RCTL":      keycode.KCRightCtrl,
		"KC_RSFT":      keycode.KCRightShift,
		"KC_RALT":      keycode.KCRightAlt,
		"KC_RGUI":      keycode.KCRightGui,
		"KC_F1":        keycode.KCF1,
		"KC_F2":        keycode.KCF2,
		"KC_F3":        keycode.KCF3,
		"KC_F4":        keycode.KCF4,
		"KC_F5":        keycode.KCF5,
		"KC_F6":        keycode.KCF6,
		"KC_F7":        keycode.KCF7,
		"KC_F8":        keycode.KCF8,
		"KC_F9":        keycode.KCF9,
		"KC_F10":       keycode.KCF10,
		"KC_F11":       keycode.KCF11,
		"KC_F12":       keycode.KCF12,
		"KC_UP":        keycode.KCUp,
		"KC_DOWN":      keycode.KCDown,
		"KC_LEFT":      keycode.KCLeft,
		"KC_RIGHT":     keycode.KCRight,
		"KC_MS_BTN1":   keycode.KCMouseBtn1,
		"KC_MS_BTN2":   keycode.KCMouseBtn2,
		"KC_MS_BTN3":   keycode.KCMouseBtn3,
		"KC_MS_BTN4":   keycode.KCMouseBtn4,
		"KC_MS_BTN5":   keycode.KCMouseBtn5,
		"KC_MS_UP":     keycode.KCMouseUp,
		"KC_MS_DOWN":   keycode.KCMouseDown,
		"KC_MS_LEFT":   keycode.KCMouseLeft,
		"KC_MS_RIGHT":  keycode.KCMouseRight,
		"KC_MS_WH_UP":  keycode.KCMouseWheelUp,
		"KC_MS_WH_DOWN": keycode.KCMouseWheelDown,
		"KC_MS_ACCEL0": keycode.KCMouseAccel0,
		"KC_MS_ACCEL1": keycode.KCMouseAccel1,
		"KC_MS_ACCEL2": keycode.KCMouseAccel2,
		"KC_MEDIA_PLAY_PAUSE": keycode.KCMediaPlayPause,
		"KC_MEDIA_NEXT":       keycode.KCMediaNext,
		"KC_MEDIA_PREV":       keycode.KCMediaPrev,
		"KC_MEDIA_STOP":       keycode.KCMediaStop,
		"KC_VOLU":             keycode.KCMediaVolUp,
		"KC_VOLD":             keycode.KCMediaVolDown,
		"KC_MUTE":             keycode.KCMediaMute,
		"KC_SYSTEM_POWER":     keycode.KCSystemPower,
		"KC_SYSTEM_SLEEP":     keycode.KCSystemSleep,
		"KC_SYSTEM_WAKE":      keycode.KCSystemWake,
		"KC_REPEAT":           keycode.KCRepeat,
		"KC_BOOTLOADER":       keycode.KCBootloader,
		"KC_OUTPUT_USB":       keycode.KCOutputUsb,
		"KC_OUTPUT_BLE":       keycode.KCOutputBle,
		"KC_BLE_PROFILE0":     keycode.KCBleProfile0,
		"KC_BLE_PROFILE1":     keycode.KCBleProfile1,
		"KC_BLE_PROFILE2":     keycode.KCBleProfile2,
		"KC_BLE_PROFILE3":     keycode.KCBleProfile3,
	}
	for alias, kc := range named {
		m[alias] = kc
	}
	return m
}

// ParseKeyCode resolves a keymap.toml keycode alias (case-insensitive) to
// its keycode.KeyCode. ok is false for an unrecognized alias.
func ParseKeyCode(name string) (kc keycode.KeyCode, ok bool) {
	kc, ok = keycodeAliases[strings.ToUpper(strings.TrimSpace(name))]
	return kc, ok
}

var modifierAliases = map[string]keycode.ModifierCombination{
	"LCTL": keycode.ModLeftCtrl, "LSFT": keycode.ModLeftShift,
	"LALT": keycode.ModLeftAlt, "LGUI": keycode.ModLeftGui,
	"RCTL": keycode.ModRightCtrl, "RSFT": keycode.ModRightShift,
	"RALT": keycode.ModRightAlt, "RGUI": keycode.ModRightGui,
}

// ParseModifier resolves a "+"-separated modifier alias list (e.g.
// "LSFT+LCTL") into a combined ModifierCombination. An empty string
// resolves to zero mods, ok true. ok is false if any element is
// unrecognized.
func ParseModifier(spec string) (mods keycode.ModifierCombination, ok bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, true
	}
	for _, part := range strings.Split(spec, "+") {
		m, found := modifierAliases[strings.ToUpper(strings.TrimSpace(part))]
		if !found {
			return 0, false
		}
		mods = mods.Combine(m)
	}
	return mods, true
}
