// SPDX-License-Identifier: BSD-3-Clause

package morse

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

func leftHandOnly(keycode.Position) keycode.Hand { return keycode.HandLeft }

// TestMorseQuickTapEmitsTapAction covers S4: a TapHold key pressed and
// released well within the hold timeout resolves to the tap action.
func TestMorseQuickTapEmitsTapAction(t *testing.T) {
	d := &recordingDispatcher{}
	r := New(Config{DefaultMode: keycode.MorseModeNormal}, d, nil)

	pos := keycode.Position{Row: 0, Col: 0}
	ka := keycode.KATapHold(keycode.Key(keycode.KCA), keycode.Modifier(keycode.ModShift), keycode.MorseProfile{HoldTimeoutMs: 250, GapTimeoutMs: 200})

	r.Press(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: 0}, ka)
	r.Release(keycode.KeyEvent{Pos: pos, Pressed: false, Timestamp: 80})

	if len(d.presses) != 1 || d.presses[0].Code != keycode.KCA {
		t.Fatalf("expected tap action Key(A), got %+v", d.presses)
	}
	if len(d.releases) != 1 || d.releases[0].Code != keycode.KCA {
		t.Fatalf("expected matching release, got %+v", d.releases)
	}
}

// TestMorseHoldPastTimeoutEmitsHoldAction covers S5: holding past the
// timeout with no interruption resolves to the hold action at timeout.
func TestMorseHoldPastTimeoutEmitsHoldAction(t *testing.T) {
	d := &recordingDispatcher{}
	r := New(Config{DefaultMode: keycode.MorseModeNormal}, d, nil)

	pos := keycode.Position{Row: 0, Col: 0}
	ka := keycode.KATapHold(keycode.Key(keycode.KCA), keycode.Modifier(keycode.ModShift), keycode.MorseProfile{HoldTimeoutMs: 250, GapTimeoutMs: 200})

	r.Press(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: 0}, ka)
	r.ProcessTimeout(250)

	if len(d.presses) != 1 || d.presses[0].Kind != keycode.ActionModifier {
		t.Fatalf("expected hold action (Shift) to fire at timeout, got %+v", d.presses)
	}

	r.Release(keycode.KeyEvent{Pos: pos, Pressed: false, Timestamp: 400})
	if len(d.releases) != 1 || d.releases[0].Kind != keycode.ActionModifier {
		t.Fatalf("expected release of the already-decided hold action, got %+v", d.releases)
	}
}

// TestChordalHoldOppositeHandForcesHold covers S6: a same-profile key on
// the opposite hand pressed while the morse key is still down forces HOLD
// immediately, regardless of elapsed time.
func TestChordalHoldOppositeHandForcesHold(t *testing.T) {
	d := &recordingDispatcher{}
	cfg := Config{
		DefaultMode: keycode.MorseModeNormal,
		ChordalHand: func(p keycode.Position) keycode.Hand {
			if p.Col < 5 {
				return keycode.HandLeft
			}
			return keycode.HandRight
		},
	}
	r := New(cfg, d, nil)

	posLeft := keycode.Position{Row: 0, Col: 0}
	posRight := keycode.Position{Row: 0, Col: 9}
	ka := keycode.KATapHold(keycode.Key(keycode.KCA), keycode.Modifier(keycode.ModShift), keycode.MorseProfile{HoldTimeoutMs: 250, GapTimeoutMs: 200})

	r.Press(keycode.KeyEvent{Pos: posLeft, Pressed: true, Timestamp: 0}, ka)
	r.NonMorseKey(keycode.KeyEvent{Pos: posRight, Pressed: true, Timestamp: 30}, keycode.Key(keycode.KCB))

	if len(d.presses) != 2 {
		t.Fatalf("expected forced hold + the interloper's press, got %+v", d.presses)
	}
	if d.presses[0].Kind != keycode.ActionModifier {
		t.Fatalf("expected chordal-hold to force the hold action first, got %+v", d.presses[0])
	}
	if d.presses[1].Code != keycode.KCB {
		t.Fatalf("expected interloper's Key(B) dispatched right after, got %+v", d.presses[1])
	}
}

// TestNormalModeBuffersInterloperUntilResolution covers the Normal-mode
// buffering rule: a same-hand (or hand-agnostic) interloper is held until
// the morse key resolves, then flushed in press-time order.
func TestNormalModeBuffersInterloperUntilResolution(t *testing.T) {
	d := &recordingDispatcher{}
	r := New(Config{DefaultMode: keycode.MorseModeNormal}, d, nil)

	pos := keycode.Position{Row: 0, Col: 0}
	other := keycode.Position{Row: 0, Col: 1}
	ka := keycode.KATapHold(keycode.Key(keycode.KCA), keycode.Modifier(keycode.ModShift), keycode.MorseProfile{HoldTimeoutMs: 250, GapTimeoutMs: 200})

	r.Press(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: 0}, ka)
	r.NonMorseKey(keycode.KeyEvent{Pos: other, Pressed: true, Timestamp: 30}, keycode.Key(keycode.KCB))

	if len(d.presses) != 0 {
		t.Fatalf("interloper must be buffered, not dispatched yet, got %+v", d.presses)
	}

	r.ProcessTimeout(250) // morse key resolves to hold

	if len(d.presses) != 2 || d.presses[1].Code != keycode.KCB {
		t.Fatalf("expected hold then buffered B flushed in order, got %+v", d.presses)
	}
}

// TestPermissiveHoldResolvesOnInterloperRelease covers permissive-hold: the
// morse key stays undecided until the interloper's full press-release
// cycle completes, at which point it resolves HOLD and flushes.
func TestPermissiveHoldResolvesOnInterloperRelease(t *testing.T) {
	d := &recordingDispatcher{}
	r := New(Config{DefaultMode: keycode.MorseModePermissiveHold}, d, nil)

	pos := keycode.Position{Row: 0, Col: 0}
	other := keycode.Position{Row: 0, Col: 1}
	ka := keycode.KATapHold(keycode.Key(keycode.KCA), keycode.Modifier(keycode.ModShift), keycode.MorseProfile{HoldTimeoutMs: 250, GapTimeoutMs: 200})

	r.Press(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: 0}, ka)
	r.NonMorseKey(keycode.KeyEvent{Pos: other, Pressed: true, Timestamp: 30}, keycode.Key(keycode.KCB))
	if len(d.presses) != 0 {
		t.Fatalf("interloper press must buffer under permissive-hold, got %+v", d.presses)
	}

	r.NonMorseKey(keycode.KeyEvent{Pos: other, Pressed: false, Timestamp: 60}, keycode.Key(keycode.KCB))

	if len(d.presses) != 2 || d.presses[0].Kind != keycode.ActionModifier || d.presses[1].Code != keycode.KCB {
		t.Fatalf("expected hold resolved then B's press flushed, got %+v", d.presses)
	}
	if len(d.releases) != 1 || d.releases[0].Code != keycode.KCB {
		t.Fatalf("expected B's release flushed too, got %+v", d.releases)
	}
}

// TestMorseDeterminismSameInputsSameOutputs is Testable Property #3: two
// independent resolvers fed the identical event sequence produce identical
// dispatched actions.
func TestMorseDeterminismSameInputsSameOutputs(t *testing.T) {
	run := func() []keycode.Action {
		d := &recordingDispatcher{}
		r := New(Config{ChordalHand: leftHandOnly, DefaultMode: keycode.MorseModeNormal}, d, nil)
		pos := keycode.Position{Row: 0, Col: 2}
		table := keycode.NewMorse(keycode.MorseProfile{HoldTimeoutMs: 200, GapTimeoutMs: 150})
		table.Actions[keycode.NewMorsePattern().Append(keycode.SymbolTap)] = keycode.Key(keycode.KCX)
		table.Actions[keycode.NewMorsePattern().Append(keycode.SymbolHold)] = keycode.Key(keycode.KCY)
		table.Actions[keycode.NewMorsePattern().Append(keycode.SymbolTap).Append(keycode.SymbolTap)] = keycode.Key(keycode.KCZ)
		r.tables = fixedTable{table}

		ka := keycode.KAMorse(0)
		r.Press(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: 0}, ka)
		r.Release(keycode.KeyEvent{Pos: pos, Pressed: false, Timestamp: 50})
		r.Press(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: 100}, ka)
		r.Release(keycode.KeyEvent{Pos: pos, Pressed: false, Timestamp: 150})
		r.ProcessTimeout(400)
		return d.presses
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("nondeterministic dispatch count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("nondeterministic action at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
	if len(a) != 1 || a[0].Code != keycode.KCZ {
		t.Fatalf("expected the two-tap pattern to resolve to Z, got %+v", a)
	}
}

type fixedTable struct{ m keycode.Morse }

func (f fixedTable) GetMorse(idx uint8) keycode.Morse { return f.m }
