// SPDX-License-Identifier: BSD-3-Clause

package behaviorcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmkfw/rmk/pkg/keycode"
)

const validToml = `
default_layer = 0

[board]
name = "test60"
chip = "gpiochip0"
row_pins = ["GPIO1", "GPIO2"]
col_pins = ["GPIO10", "GPIO11"]
col2row = true

[[layer]]
name = "base"
keys = [["KC_A", "KC_B"], ["KC_1", "KC_LSFT"]]
encoders = [["KC_VOLU", "KC_VOLD"]]

[[layer]]
name = "fn"
keys = [["KC_F1", "KC_TRNS"], ["KC_TRNS", "KC_TRNS"]]
encoders = [["KC_TRNS", "KC_TRNS"]]

[input]
encoders = [{ a_pin = "GPIO20", b_pin = "GPIO21" }]

[behavior.tap_hold]
hold_timeout_ms = 200
gap_timeout_ms = 150

[[behavior.combo]]
keys = ["0,0", "0,1"]
output = "KC_ESC"
timeout_ms = 50

[[behavior.fork]]
trigger = "KC_A"
cond_mods = "LSFT"
replace_if = "KC_B"

[[behavior.morse]]
index = 0
hold_timeout_ms = 180
gap_timeout_ms = 140

[[behavior.macro]]
index = 0
text = "hello"

[storage]
path = "/tmp/rmk.db"
channel_capacity = 16
`

func writeToml(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "keyboard.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeToml(t, validToml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(cfg.Layers))
	}
}

func TestBuildPopulatesKeyMap(t *testing.T) {
	cfg, err := Load(writeToml(t, validToml))
	if err != nil {
		t.Fatal(err)
	}
	rt, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ka := rt.KeyMap.GetActionAt(0, 0, 0)
	if ka.Kind != keycode.KeyActionSingle || ka.Action.Code != keycode.KCA {
		t.Fatalf("got %+v, want KC_A at layer 0 (0,0)", ka)
	}

	trns := rt.KeyMap.GetActionAt(1, 0, 1)
	if trns.Kind != keycode.KeyActionTransparent {
		t.Fatalf("got %+v, want transparent at layer 1 (0,1)", trns)
	}

	if len(rt.Combos) != 1 || rt.Combos[0].Output.Code != keycode.KCEscape {
		t.Fatalf("got combos %+v, want one combo outputting KC_ESC", rt.Combos)
	}
	if len(rt.Forks) != 1 || rt.Forks[0].Trigger != keycode.KCA || rt.Forks[0].ReplaceIf != keycode.KCB {
		t.Fatalf("got forks %+v", rt.Forks)
	}
	if rt.MorseTable.Count() != 1 {
		t.Fatalf("got %d morse entries, want 1", rt.MorseTable.Count())
	}
	if string(rt.MacroTable.Blobs[0]) != "hello\x00" {
		t.Fatalf("got macro blob %q, want \"hello\\x00\"", rt.MacroTable.Blobs[0])
	}
}

func TestValidateRejectsUnknownKeycode(t *testing.T) {
	bad := `
[board]
name = "t"
row_pins = ["A"]
col_pins = ["B"]

[[layer]]
name = "base"
keys = [["KC_NOT_REAL"]]
`
	_, err := Load(writeToml(t, bad))
	if err == nil {
		t.Fatal("expected an error for an unknown keycode alias")
	}
}

func TestValidateRejectsLayerShapeMismatch(t *testing.T) {
	bad := `
[board]
name = "t"
row_pins = ["A", "B"]
col_pins = ["C"]

[[layer]]
name = "base"
keys = [["KC_A"]]
`
	_, err := Load(writeToml(t, bad))
	if err == nil {
		t.Fatal("expected an error for a layer with too few rows")
	}
}

func TestValidateRejectsDefaultLayerOutOfRange(t *testing.T) {
	bad := `
default_layer = 5

[board]
name = "t"
row_pins = ["A"]
col_pins = ["B"]

[[layer]]
name = "base"
keys = [["KC_A"]]
`
	_, err := Load(writeToml(t, bad))
	if err == nil {
		t.Fatal("expected an error for an out-of-range default_layer")
	}
}

func TestValidateRejectsTooFewComboMembers(t *testing.T) {
	bad := `
[board]
name = "t"
row_pins = ["A"]
col_pins = ["B"]

[[layer]]
name = "base"
keys = [["KC_A"]]

[[behavior.combo]]
keys = ["0,0"]
output = "KC_ESC"
`
	_, err := Load(writeToml(t, bad))
	if err == nil {
		t.Fatal("expected an error for a combo with only one member")
	}
}

func TestParseModifierCombination(t *testing.T) {
	mods, ok := ParseModifier("LSFT+LCTL")
	if !ok {
		t.Fatal("expected LSFT+LCTL to parse")
	}
	if !mods.Has(keycode.ModLeftShift) || !mods.Has(keycode.ModLeftCtrl) {
		t.Fatalf("got %v, want both LShift and LCtrl set", mods)
	}

	if _, ok := ParseModifier("NOT_A_MOD"); ok {
		t.Fatal("expected an unrecognized modifier alias to fail")
	}

	empty, ok := ParseModifier("")
	if !ok || empty != 0 {
		t.Fatalf("got mods=%v ok=%v, want 0,true for empty spec", empty, ok)
	}
}
