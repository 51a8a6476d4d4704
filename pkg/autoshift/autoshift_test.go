// SPDX-License-Identifier: BSD-3-Clause

package autoshift

import (
	"testing"

	"github.com/rmkfw/rmk/pkg/keycode"
)

func TestWrapLeavesIneligibleActionsUnchanged(t *testing.T) {
	cfg := Config{Enabled: true, Letters: true, TimeoutMs: 150}
	ka := keycode.KASingle(keycode.Modifier(keycode.ModShift))
	if got := Wrap(ka, cfg); got != ka {
		t.Fatalf("expected modifier action unchanged, got %+v", got)
	}
}

func TestWrapSynthesizesTapHoldForEligibleLetter(t *testing.T) {
	cfg := Config{Enabled: true, Letters: true, TimeoutMs: 150}
	ka := keycode.KASingle(keycode.Key(keycode.KCA))

	got := Wrap(ka, cfg)
	if got.Kind != keycode.KeyActionTapHold {
		t.Fatalf("expected synthesized TapHold, got %+v", got)
	}
	if got.Tap.Code != keycode.KCA || got.Hold.Code != keycode.KCA || got.Hold.Mods != keycode.ModShift {
		t.Fatalf("expected tap=A hold=Shift+A, got %+v", got)
	}
}

func TestWrapSkipsDisabledClass(t *testing.T) {
	cfg := Config{Enabled: true, Letters: false, Numbers: true, TimeoutMs: 150}
	ka := keycode.KASingle(keycode.Key(keycode.KCA))
	if got := Wrap(ka, cfg); got.Kind != keycode.KeyActionSingle {
		t.Fatalf("expected letters disabled to leave action untouched, got %+v", got)
	}
}
