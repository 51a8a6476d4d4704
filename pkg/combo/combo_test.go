// SPDX-License-Identifier: BSD-3-Clause

package combo

import (
	"testing"

	"github.com/rmkfw/rmk/pkg/keycode"
)

type recordingDispatcher struct {
	presses  []keycode.Action
	releases []keycode.Action
}

func (d *recordingDispatcher) EmitPress(pos keycode.Position, a keycode.Action, t uint32) {
	d.presses = append(d.presses, a)
}
func (d *recordingDispatcher) EmitRelease(pos keycode.Position, a keycode.Action, t uint32) {
	d.releases = append(d.releases, a)
}

// TestComboFiresAtomicallyNotIndividualMembers is Testable Property #4: a
// confirmed combo never leaks its individual member presses downstream.
func TestComboFiresAtomicallyNotIndividualMembers(t *testing.T) {
	d := &recordingDispatcher{}
	a, b := keycode.Position{Row: 0, Col: 0}, keycode.Position{Row: 0, Col: 1}
	e := New([]Combo{
		{Keys: []keycode.Position{a, b}, Output: keycode.Key(keycode.KCEscape), TimeoutMs: 50},
	}, d)

	e.Press(keycode.KeyEvent{Pos: a, Pressed: true, Timestamp: 0}, keycode.Key(keycode.KCA))
	e.Press(keycode.KeyEvent{Pos: b, Pressed: true, Timestamp: 10}, keycode.Key(keycode.KCB))

	if len(d.presses) != 1 || d.presses[0].Code != keycode.KCEscape {
		t.Fatalf("expected exactly the combo's output, got %+v", d.presses)
	}

	e.Release(keycode.KeyEvent{Pos: a, Pressed: false, Timestamp: 20}, keycode.Key(keycode.KCA))
	if len(d.releases) != 1 || d.releases[0].Code != keycode.KCEscape {
		t.Fatalf("expected combo release on first member release, got %+v", d.releases)
	}

	e.Release(keycode.KeyEvent{Pos: b, Pressed: false, Timestamp: 25}, keycode.Key(keycode.KCB))
	if len(d.releases) != 1 {
		t.Fatalf("second member release must not re-fire a release, got %+v", d.releases)
	}
}

// TestLongerComboSupersedesSubCombo: a 3-key combo sharing a 2-key prefix
// wins when all three arrive within the window.
func TestLongerComboSupersedesSubCombo(t *testing.T) {
	d := &recordingDispatcher{}
	a := keycode.Position{Row: 0, Col: 0}
	b := keycode.Position{Row: 0, Col: 1}
	c := keycode.Position{Row: 0, Col: 2}
	e := New([]Combo{
		{Keys: []keycode.Position{a, b}, Output: keycode.Key(keycode.KCEscape), TimeoutMs: 50},
		{Keys: []keycode.Position{a, b, c}, Output: keycode.Key(keycode.KCTab), TimeoutMs: 50},
	}, d)

	e.Press(keycode.KeyEvent{Pos: a, Pressed: true, Timestamp: 0}, keycode.Key(keycode.KCA))
	e.Press(keycode.KeyEvent{Pos: b, Pressed: true, Timestamp: 5}, keycode.Key(keycode.KCB))
	if len(d.presses) != 0 {
		t.Fatalf("expected the 2-key combo to wait for the possible 3-key extension, got %+v", d.presses)
	}
	e.Press(keycode.KeyEvent{Pos: c, Pressed: true, Timestamp: 10}, keycode.Key(keycode.KCC))

	if len(d.presses) != 1 || d.presses[0].Code != keycode.KCTab {
		t.Fatalf("expected the 3-key combo to supersede, got %+v", d.presses)
	}
}
