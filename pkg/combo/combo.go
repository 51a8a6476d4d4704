// SPDX-License-Identifier: BSD-3-Clause

package combo

import (
	"sync"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// Combo is a set of positions that, pressed together within Timeout, emit
// Output instead of their individual bindings.
type Combo struct {
	Keys      []keycode.Position
	Output    keycode.Action
	Layer     *uint8
	TimeoutMs uint16
}

// Dispatcher receives the combo engine's decisions: either a passed-through
// member press/release (combo never completed) or the combo's own output.
type Dispatcher interface {
	EmitPress(pos keycode.Position, a keycode.Action, t uint32)
	EmitRelease(pos keycode.Position, a keycode.Action, t uint32)
}

type memberEvent struct {
	ev     keycode.KeyEvent
	action keycode.Action
}

type firedCombo struct {
	output   keycode.Action
	members  map[keycode.Position]bool
	released bool
}

// Engine buffers candidate member presses, resolves overlapping combos by
// longest match, and suppresses/replays member events accordingly.
type Engine struct {
	mu       sync.Mutex
	dispatch Dispatcher
	combos   []Combo

	pending []memberEvent
	fired   *firedCombo
}

// New builds a combo engine from a static combo list (behaviorcfg-loaded).
func New(combos []Combo, dispatch Dispatcher) *Engine {
	return &Engine{combos: append([]Combo(nil), combos...), dispatch: dispatch}
}

func containsPos(keys []keycode.Position, p keycode.Position) bool {
	for _, k := range keys {
		if k == p {
			return true
		}
	}
	return false
}

func (e *Engine) isAnyMember(p keycode.Position) bool {
	for _, c := range e.combos {
		if containsPos(c.Keys, p) {
			return true
		}
	}
	return false
}

func pendingPositions(pending []memberEvent) []keycode.Position {
	out := make([]keycode.Position, len(pending))
	for i, m := range pending {
		out[i] = m.ev.Pos
	}
	return out
}

func isSubsetPositions(sub, super []keycode.Position) bool {
	for _, s := range sub {
		if !containsPos(super, s) {
			return false
		}
	}
	return true
}

func setEqualPositions(a, b []keycode.Position) bool {
	return len(a) == len(b) && isSubsetPositions(a, b) && isSubsetPositions(b, a)
}

// Press feeds a resolved, non-morse key press into the combo engine. action
// is what the position would dispatch to if no combo claims it.
func (e *Engine) Press(ev keycode.KeyEvent, action keycode.Action) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fired != nil {
		if e.fired.members[ev.Pos] {
			return // extra member press of an already-fired combo: ignored
		}
		e.dispatch.EmitPress(ev.Pos, action, ev.Timestamp)
		return
	}

	if !e.isAnyMember(ev.Pos) {
		e.dispatch.EmitPress(ev.Pos, action, ev.Timestamp)
		return
	}

	e.pending = append(e.pending, memberEvent{ev, action})
	e.evaluateLocked(ev.Timestamp)
}

// Release feeds the matching release.
func (e *Engine) Release(ev keycode.KeyEvent, action keycode.Action) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fired != nil {
		if e.fired.members[ev.Pos] {
			// The first member release releases the output; the remaining
			// members' releases are swallowed until the last one lifts.
			delete(e.fired.members, ev.Pos)
			if !e.fired.released {
				e.fired.released = true
				e.dispatch.EmitRelease(ev.Pos, e.fired.output, ev.Timestamp)
			}
			if len(e.fired.members) == 0 {
				e.fired = nil
			}
			return
		}
		e.dispatch.EmitRelease(ev.Pos, action, ev.Timestamp)
		return
	}

	for _, pe := range e.pending {
		if pe.ev.Pos == ev.Pos {
			// A member released before the combo resolved cancels it.
			e.flushAllLocked()
			e.dispatch.EmitRelease(ev.Pos, action, ev.Timestamp)
			return
		}
	}
	e.dispatch.EmitRelease(ev.Pos, action, ev.Timestamp)
}

// NextTimeout returns the deadline by which the oldest buffered member must
// resolve, so the caller's select loop knows when to call ProcessTimeout.
func (e *Engine) NextTimeout() (uint32, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return 0, false
	}
	return e.pending[0].ev.Timestamp + uint32(e.widestTimeoutLocked()), true
}

func (e *Engine) widestTimeoutLocked() uint16 {
	var max uint16
	positions := pendingPositions(e.pending)
	for _, c := range e.combos {
		if isSubsetPositions(positions, c.Keys) && c.TimeoutMs > max {
			max = c.TimeoutMs
		}
	}
	if max == 0 {
		max = 200
	}
	return max
}

// ProcessTimeout resolves a still-pending buffer once its window elapses:
// fires the best exact-match combo if one exists, otherwise replays the
// buffered presses as individual key events.
func (e *Engine) ProcessTimeout(now uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return
	}
	deadline := e.pending[0].ev.Timestamp + uint32(e.widestTimeoutLocked())
	if now < deadline {
		return
	}
	if best := e.bestExactMatchLocked(); best != nil {
		e.fireLocked(best, now)
		return
	}
	e.flushAllLocked()
}

func (e *Engine) evaluateLocked(now uint32) {
	positions := pendingPositions(e.pending)
	possible := false
	for i := range e.combos {
		if isSubsetPositions(positions, e.combos[i].Keys) {
			possible = true
			break
		}
	}
	if !possible {
		e.flushAllLocked()
		return
	}

	best := e.bestExactMatchLocked()
	if best == nil {
		return // waiting for more members or the window to elapse
	}
	for i := range e.combos {
		c := &e.combos[i]
		if len(c.Keys) > len(positions) && isSubsetPositions(positions, c.Keys) {
			return // a longer combo can still complete; wait it out
		}
	}
	e.fireLocked(best, now)
}

func (e *Engine) bestExactMatchLocked() *Combo {
	positions := pendingPositions(e.pending)
	var best *Combo
	for i := range e.combos {
		c := &e.combos[i]
		if setEqualPositions(positions, c.Keys) {
			if best == nil || len(c.Keys) > len(best.Keys) {
				best = c
			}
		}
	}
	return best
}

func (e *Engine) fireLocked(c *Combo, now uint32) {
	members := make(map[keycode.Position]bool, len(c.Keys))
	for _, k := range c.Keys {
		members[k] = true
	}
	e.fired = &firedCombo{output: c.Output, members: members}
	e.pending = nil
	e.dispatch.EmitPress(c.Keys[0], c.Output, now)
}

func (e *Engine) flushAllLocked() {
	for _, pe := range e.pending {
		e.dispatch.EmitPress(pe.ev.Pos, pe.action, pe.ev.Timestamp)
	}
	e.pending = nil
}

// Count reports the number of configured combo slots, for host-protocol
// live editing to bound requested indices.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.combos)
}

// Get returns the combo at idx. ok is false if idx is out of range.
func (e *Engine) Get(idx int) (c Combo, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx < 0 || idx >= len(e.combos) {
		return Combo{}, false
	}
	return e.combos[idx], true
}

// Set overwrites the combo at idx, used by live keymap-editing protocols.
// ok is false if idx is out of range; the slot count is fixed at New.
func (e *Engine) Set(idx int, c Combo) (ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx < 0 || idx >= len(e.combos) {
		return false
	}
	e.combos[idx] = c
	return true
}
