// SPDX-License-Identifier: BSD-3-Clause

package via

import (
	"testing"

	"github.com/rmkfw/rmk/pkg/keycode"
)

func TestFromViaKeyCodePlainAndLayer(t *testing.T) {
	cases := []struct {
		name string
		code uint16
		want keycode.KeyAction
	}{
		{"A", 0x04, keycode.KASingle(keycode.Key(keycode.KCA))},
		{"RShift", 0xE5, keycode.KASingle(keycode.Key(keycode.KCRightShift))},
		{"Mo(3)", 0x5223, keycode.KASingle(keycode.LayerOn(3))},
		{"OSL(3)", 0x5283, keycode.KASingle(keycode.OneShotLayer(3))},
		{"DF(2)", 0x5242, keycode.KASingle(keycode.DefaultLayer(2))},
		{"TG(1)", 0x5261, keycode.KASingle(keycode.LayerToggle(1))},
		{"TO(0)", 0x5200, keycode.KASingle(keycode.LayerToggleOnly(0))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromViaKeyCode(tc.code)
			if got != tc.want {
				t.Fatalf("FromViaKeyCode(%#x) = %+v, want %+v", tc.code, got, tc.want)
			}
		})
	}
}

func TestKeyCodeRoundTripLayerBands(t *testing.T) {
	codes := []uint16{0x0000, 0x0001, 0x04, 0xE5, 0x5223, 0x5283, 0x5242, 0x5261, 0x5200}
	for _, code := range codes {
		ka := FromViaKeyCode(code)
		got := ToViaKeyCode(ka)
		if got != code {
			t.Errorf("round trip %#x: got %#x back via %+v", code, got, ka)
		}
	}
}

func TestWithModifierRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		mods keycode.ModifierCombination
		want uint16
	}{
		{"LCtrl(A)", keycode.ModLeftCtrl, 0x0104},
		{"RCtrl(A)", keycode.ModRightCtrl, 0x1004},
		{"Meh(A)", keycode.ModLeftCtrl | keycode.ModLeftShift | keycode.ModLeftAlt, 0x0704},
		{"Hypr(A)", keycode.ModLeftCtrl | keycode.ModLeftShift | keycode.ModLeftAlt | keycode.ModLeftGui, 0x0F04},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ka := keycode.KASingle(keycode.KeyWithModifier(keycode.KCA, tc.mods))
			got := ToViaKeyCode(ka)
			if got != tc.want {
				t.Fatalf("ToViaKeyCode(%+v) = %#x, want %#x", ka, got, tc.want)
			}
			back := FromViaKeyCode(got)
			if back != ka {
				t.Fatalf("round trip mismatch: got %+v, want %+v", back, ka)
			}
		})
	}
}

func TestLayerTapHoldRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		layer uint8
		want  uint16
	}{
		{"LT0(A)", 0, 0x4004},
		{"LT3(A)", 3, 0x4304},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ka := keycode.KATapHold(keycode.Key(keycode.KCA), keycode.LayerOn(tc.layer), keycode.DefaultMorseProfile())
			got := ToViaKeyCode(ka)
			if got != tc.want {
				t.Fatalf("ToViaKeyCode(%+v) = %#x, want %#x", ka, got, tc.want)
			}
			back := FromViaKeyCode(got)
			if back.Kind != keycode.KeyActionTapHold || back.Tap.Code != keycode.KCA || back.Hold.Layer != tc.layer {
				t.Fatalf("round trip mismatch: got %+v", back)
			}
		})
	}
}

func TestModifierTapHoldRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		mods keycode.ModifierCombination
		want uint16
	}{
		{"LSA_T(A)", keycode.ModLeftShift | keycode.ModLeftAlt, 0x2604},
		{"Meh_T(A)", keycode.ModLeftCtrl | keycode.ModLeftShift | keycode.ModLeftAlt, 0x2704},
		{"ALL_T(A)", keycode.ModLeftCtrl | keycode.ModLeftShift | keycode.ModLeftAlt | keycode.ModLeftGui, 0x2F04},
		{"RCtrl_T(A)", keycode.ModRightCtrl, 0x3004},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ka := keycode.KATapHold(keycode.Key(keycode.KCA), keycode.Modifier(tc.mods), keycode.DefaultMorseProfile())
			got := ToViaKeyCode(ka)
			if got != tc.want {
				t.Fatalf("ToViaKeyCode(%+v) = %#x, want %#x", ka, got, tc.want)
			}
		})
	}
}

func TestOneShotModifierRoundTrip(t *testing.T) {
	ka := keycode.KASingle(keycode.OneShotModifier(keycode.ModRightCtrl))
	got := ToViaKeyCode(ka)
	want := uint16(0x52B0)
	if got != want {
		t.Fatalf("ToViaKeyCode(%+v) = %#x, want %#x", ka, got, want)
	}
	back := FromViaKeyCode(got)
	if back != ka {
		t.Fatalf("round trip mismatch: got %+v, want %+v", back, ka)
	}
}

func TestVendorBandRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		kc   keycode.KeyCode
		code uint16
	}{
		{"RepeatKey", keycode.KCRepeat, 0x7C79},
		{"Bootloader", keycode.KCBootloader, 0x7C00},
		{"OutputUsb", keycode.KCOutputUsb, 0x7C60},
		{"OutputBle", keycode.KCOutputBle, 0x7C61},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ka := keycode.KASingle(keycode.Key(tc.kc))
			got := ToViaKeyCode(ka)
			if got != tc.code {
				t.Fatalf("ToViaKeyCode(%v) = %#x, want %#x", tc.kc, got, tc.code)
			}
			back := FromViaKeyCode(got)
			if back != ka {
				t.Fatalf("round trip mismatch: got %+v, want %+v", back, ka)
			}
		})
	}
}

func TestMacroTriggerRoundTrip(t *testing.T) {
	ka := keycode.KASingle(keycode.TriggerMacro(5))
	got := ToViaKeyCode(ka)
	want := uint16(0x7705)
	if got != want {
		t.Fatalf("ToViaKeyCode(%+v) = %#x, want %#x", ka, got, want)
	}
	back := FromViaKeyCode(got)
	if back != ka {
		t.Fatalf("round trip mismatch: got %+v, want %+v", back, ka)
	}
}

func TestMorseKeyActionRoundTrip(t *testing.T) {
	ka := keycode.KAMorse(7)
	got := ToViaKeyCode(ka)
	want := uint16(0x5707)
	if got != want {
		t.Fatalf("ToViaKeyCode(%+v) = %#x, want %#x", ka, got, want)
	}
	back := FromViaKeyCode(got)
	if back != ka {
		t.Fatalf("round trip mismatch: got %+v, want %+v", back, ka)
	}
}

func TestNoAndTransparent(t *testing.T) {
	if got := ToViaKeyCode(keycode.KANo); got != 0x0000 {
		t.Fatalf("ToViaKeyCode(KANo) = %#x, want 0x0000", got)
	}
	if got := ToViaKeyCode(keycode.KATransparent); got != 0x0001 {
		t.Fatalf("ToViaKeyCode(KATransparent) = %#x, want 0x0001", got)
	}
	if got := FromViaKeyCode(0x0000); got != keycode.KANo {
		t.Fatalf("FromViaKeyCode(0x0000) = %+v, want KANo", got)
	}
	if got := FromViaKeyCode(0x0001); got != keycode.KATransparent {
		t.Fatalf("FromViaKeyCode(0x0001) = %+v, want KATransparent", got)
	}
}

func TestFromViaKeyCodeUnknownFallsBackToNo(t *testing.T) {
	// 0x6000-0x76FF is unassigned in every band this package decodes.
	got := FromViaKeyCode(0x6500)
	if got != keycode.KANo {
		t.Fatalf("FromViaKeyCode(unknown) = %+v, want KANo", got)
	}
}
