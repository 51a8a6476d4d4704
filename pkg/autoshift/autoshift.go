// SPDX-License-Identifier: BSD-3-Clause

package autoshift

import "github.com/rmkfw/rmk/pkg/keycode"

// Config selects which keycode classes opt into auto-shift and the hold
// timeout past which a tap becomes Shift+tap.
type Config struct {
	Enabled   bool
	Letters   bool
	Numbers   bool
	Symbols   bool
	TimeoutMs uint16
}

func (c Config) eligible(kc keycode.KeyCode) bool {
	if !c.Enabled {
		return false
	}
	switch {
	case kc >= keycode.KCA && kc <= keycode.KCZ:
		return c.Letters
	case kc >= keycode.KC1 && kc <= keycode.KC0:
		return c.Numbers
	case kc == keycode.KCMinus || kc == keycode.KCEqual:
		return c.Symbols
	default:
		return false
	}
}

// Wrap rewrites an eligible Single Key(k) KeyAction into a synthesized
// TapHold(Key(k), KeyWithModifier(k, LShift), profile) so it resolves
// through the ordinary morse buffer; anything else (already morse-like,
// modifier keys, layer actions, an ineligible keycode) passes through
// unchanged.
func Wrap(ka keycode.KeyAction, cfg Config) keycode.KeyAction {
	if ka.Kind != keycode.KeyActionSingle || ka.Action.Kind != keycode.ActionKey {
		return ka
	}
	kc := ka.Action.Code
	if !cfg.eligible(kc) {
		return ka
	}
	profile := keycode.MorseProfile{
		HoldTimeoutMs: cfg.TimeoutMs,
		GapTimeoutMs:  0,
		Mode:          keycode.MorseModeNormal,
	}
	return keycode.KATapHold(keycode.Key(kc), keycode.KeyWithModifier(kc, keycode.ModShift), profile)
}
