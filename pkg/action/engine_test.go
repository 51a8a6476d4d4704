// SPDX-License-Identifier: BSD-3-Clause

package action

import (
	"testing"

	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/hidreport"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/keymap"
)

type recordingReporter struct {
	reports []hidreport.Report
}

func (r *recordingReporter) Report(rep hidreport.Report) { r.reports = append(r.reports, rep) }

func (r *recordingReporter) last() hidreport.Report { return r.reports[len(r.reports)-1] }

// TestPressReleaseSymmetryReturnsToEmptyReport is Testable Property #1: any
// sequence of presses fully released returns the keyboard report to empty.
func TestPressReleaseSymmetryReturnsToEmptyReport(t *testing.T) {
	km := keymap.New(1, 1, 3, 0)
	_ = km.SetActionAt(0, 0, 0, keycode.KASingle(keycode.Key(keycode.KCA)))
	_ = km.SetActionAt(0, 0, 1, keycode.KASingle(keycode.Key(keycode.KCLeftShift)))
	_ = km.SetActionAt(0, 0, 2, keycode.KASingle(keycode.Key(keycode.KCB)))

	rep := &recordingReporter{}
	e := New(km, rep)

	positions := []keycode.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}
	for i, p := range positions {
		e.HandleKeyEvent(keycode.KeyEvent{Pos: p, Pressed: true, Timestamp: uint32(i)})
	}
	for i, p := range positions {
		e.HandleKeyEvent(keycode.KeyEvent{Pos: p, Pressed: false, Timestamp: uint32(100 + i)})
	}

	if !rep.last().IsEmpty() {
		t.Fatalf("expected empty report after full release, got %+v", rep.last())
	}
}

// TestModifierSetIsMonotonicDuringOverlap is Testable Property #5: holding
// two modifier-producing keys keeps both bits set until both release, never
// dropping one early because of the other's lifecycle.
func TestModifierSetIsMonotonicDuringOverlap(t *testing.T) {
	km := keymap.New(1, 1, 2, 0)
	_ = km.SetActionAt(0, 0, 0, keycode.KASingle(keycode.Key(keycode.KCLeftShift)))
	_ = km.SetActionAt(0, 0, 1, keycode.KASingle(keycode.Key(keycode.KCLeftCtrl)))

	rep := &recordingReporter{}
	e := New(km, rep)

	posShift := keycode.Position{Row: 0, Col: 0}
	posCtrl := keycode.Position{Row: 0, Col: 1}

	e.HandleKeyEvent(keycode.KeyEvent{Pos: posShift, Pressed: true, Timestamp: 0})
	e.HandleKeyEvent(keycode.KeyEvent{Pos: posCtrl, Pressed: true, Timestamp: 10})
	if rep.last().Keyboard.Modifier&byte(keycode.ModShift) == 0 || rep.last().Keyboard.Modifier&byte(keycode.ModCtrl) == 0 {
		t.Fatalf("expected both modifiers set, got 0x%02X", rep.last().Keyboard.Modifier)
	}

	e.HandleKeyEvent(keycode.KeyEvent{Pos: posCtrl, Pressed: false, Timestamp: 20})
	if rep.last().Keyboard.Modifier&byte(keycode.ModShift) == 0 {
		t.Fatalf("releasing Ctrl must not clear Shift, got 0x%02X", rep.last().Keyboard.Modifier)
	}
	if rep.last().Keyboard.Modifier&byte(keycode.ModCtrl) != 0 {
		t.Fatalf("expected Ctrl cleared, got 0x%02X", rep.last().Keyboard.Modifier)
	}
}

// TestSixKeySlotDropsSeventhPress covers the slot-full boundary: a 7th
// simultaneous non-modifier press is dropped rather than evicting a held
// key or corrupting another slot.
func TestSixKeySlotDropsSeventhPress(t *testing.T) {
	km := keymap.New(1, 1, 7, 0)
	codes := []keycode.KeyCode{keycode.KCA, keycode.KCB, keycode.KCC, keycode.KCD, keycode.KCE, keycode.KCF, keycode.KCG}
	for i, c := range codes {
		_ = km.SetActionAt(0, 0, uint8(i), keycode.KASingle(keycode.Key(c)))
	}

	rep := &recordingReporter{}
	e := New(km, rep)

	for i, c := range codes {
		_ = c
		e.HandleKeyEvent(keycode.KeyEvent{Pos: keycode.Position{Row: 0, Col: uint8(i)}, Pressed: true, Timestamp: uint32(i)})
	}

	count := 0
	for _, k := range rep.last().Keyboard.Keys {
		if k != 0 {
			count++
		}
	}
	if count != 6 {
		t.Fatalf("expected exactly 6 occupied slots after 7 presses, got %d", count)
	}
}

// TestOneShotModifierRetiresOnTriggeredKeyRelease covers one-shot-modifier
// lifecycle: the modifier survives the one-shot key's own release and
// clears only when the next key it modifies is released.
func TestOneShotModifierRetiresOnTriggeredKeyRelease(t *testing.T) {
	km := keymap.New(1, 1, 2, 0)
	_ = km.SetActionAt(0, 0, 0, keycode.KeyAction{Kind: keycode.KeyActionSingle, Action: keycode.OneShotModifier(keycode.ModShift)})
	_ = km.SetActionAt(0, 0, 1, keycode.KASingle(keycode.Key(keycode.KCA)))

	rep := &recordingReporter{}
	e := New(km, rep)

	osPos := keycode.Position{Row: 0, Col: 0}
	aPos := keycode.Position{Row: 0, Col: 1}

	e.HandleKeyEvent(keycode.KeyEvent{Pos: osPos, Pressed: true, Timestamp: 0})
	e.HandleKeyEvent(keycode.KeyEvent{Pos: osPos, Pressed: false, Timestamp: 10})
	if rep.last().Keyboard.Modifier&byte(keycode.ModShift) == 0 {
		t.Fatalf("one-shot modifier must survive its own key's release")
	}

	e.HandleKeyEvent(keycode.KeyEvent{Pos: aPos, Pressed: true, Timestamp: 20})
	e.HandleKeyEvent(keycode.KeyEvent{Pos: aPos, Pressed: false, Timestamp: 30})
	if rep.last().Keyboard.Modifier&byte(keycode.ModShift) != 0 {
		t.Fatalf("one-shot modifier must retire on the triggered key's release, got 0x%02X", rep.last().Keyboard.Modifier)
	}
}

// TestComboWiringFiresThroughHandleKeyEvent covers the combo-engine-in-
// front-of-morse wiring: two member positions bound to plain keys fire the
// combo's output instead of either member's own binding.
func TestComboWiringFiresThroughHandleKeyEvent(t *testing.T) {
	km := keymap.New(1, 1, 2, 0)
	_ = km.SetActionAt(0, 0, 0, keycode.KASingle(keycode.Key(keycode.KCA)))
	_ = km.SetActionAt(0, 0, 1, keycode.KASingle(keycode.Key(keycode.KCB)))

	rep := &recordingReporter{}
	e := New(km, rep)

	posA := keycode.Position{Row: 0, Col: 0}
	posB := keycode.Position{Row: 0, Col: 1}
	e.SetCombos(e.NewCombos([]combo.Combo{{
		Keys:      []keycode.Position{posA, posB},
		Output:    keycode.Action{Kind: keycode.ActionKey, Code: keycode.KCEscape},
		TimeoutMs: 50,
	}}))

	e.HandleKeyEvent(keycode.KeyEvent{Pos: posA, Pressed: true, Timestamp: 0})
	e.HandleKeyEvent(keycode.KeyEvent{Pos: posB, Pressed: true, Timestamp: 5})

	found := false
	for _, k := range rep.last().Keyboard.Keys {
		if k == byte(keycode.KCEscape) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected combo output Escape in report, got %+v", rep.last().Keyboard)
	}
}
