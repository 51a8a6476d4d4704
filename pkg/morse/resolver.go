// SPDX-License-Identifier: BSD-3-Clause

package morse

import (
	"context"
	"sort"
	"sync"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// Dispatcher receives the fully-resolved press/release stream the resolver
// produces — the only thing downstream (the action engine) ever sees,
// regardless of how many symbols or buffered interlopers it took to get
// there.
type Dispatcher interface {
	EmitPress(pos keycode.Position, a keycode.Action, t uint32)
	EmitRelease(pos keycode.Position, a keycode.Action, t uint32)
}

// TableProvider resolves a KAMorse entry's table index to its Morse table;
// behaviorcfg owns the actual storage, the resolver only ever reads it.
type TableProvider interface {
	GetMorse(idx uint8) keycode.Morse
}

// Config tunes the cross-key interaction rules. ChordalHand may be nil, in
// which case chordal-hold and unilateral-tap are both disabled (a single
// board with no hand concept).
type Config struct {
	ChordalHand          func(keycode.Position) keycode.Hand
	UnilateralTapDefault bool
	FlowTapThresholdMs   uint16
	DefaultMode          keycode.MorseMode
}

type bufferedEvent struct {
	ev     keycode.KeyEvent
	action keycode.Action
}

// Resolver is the held-key buffer plus the chordal-hold/permissive-hold/
// hold-on-other-press/unilateral-tap/flow-tap interaction rules. One
// Resolver instance serves an entire keyboard (or one side of a split);
// every morse-like KeyAction and every plain key event passes through it so
// it can correctly buffer non-morse keys while a morse key's outcome is
// still undecided.
type Resolver struct {
	mu sync.Mutex

	cfg      Config
	tables   TableProvider
	dispatch Dispatcher

	held    []*HeldKey
	pending []bufferedEvent
	buffered map[keycode.Position]bool

	lastDecidedHand Hand
	lastEmittedAt   uint32
}

// Hand is re-exported for callers that only import pkg/morse.
type Hand = keycode.Hand

// New builds a Resolver. dispatch receives the final press/release stream;
// tables resolves KAMorse indices (may be nil if the keymap uses only
// TapHold entries, whose tap/hold tables are synthesized inline).
func New(cfg Config, dispatch Dispatcher, tables TableProvider) *Resolver {
	return &Resolver{
		cfg:      cfg,
		tables:   tables,
		dispatch: dispatch,
		buffered: make(map[keycode.Position]bool),
	}
}

func (r *Resolver) tableFor(ka keycode.KeyAction) keycode.Morse {
	switch ka.Kind {
	case keycode.KeyActionTapHold:
		m := keycode.NewMorse(ka.Profile)
		m.Actions[keycode.NewMorsePattern().Append(keycode.SymbolTap)] = ka.Tap
		m.Actions[keycode.NewMorsePattern().Append(keycode.SymbolHold)] = ka.Hold
		return m
	case keycode.KeyActionMorse:
		if r.tables != nil {
			return r.tables.GetMorse(ka.MorseIndex)
		}
	}
	return keycode.NewMorse(keycode.DefaultMorseProfile())
}

func (r *Resolver) effectiveMode(hk *HeldKey) keycode.MorseMode {
	if hk.Table.Profile.Mode != keycode.MorseModeDefault {
		return hk.Table.Profile.Mode
	}
	if r.cfg.DefaultMode != keycode.MorseModeDefault {
		return r.cfg.DefaultMode
	}
	return keycode.MorseModeNormal
}

func (r *Resolver) effectiveUnilateral(hk *HeldKey) bool {
	if v, ok := hk.Table.Profile.UnilateralTap.Bool(); ok {
		return v
	}
	return r.cfg.UnilateralTapDefault
}

func (r *Resolver) handAt(pos keycode.Position) keycode.Hand {
	if r.cfg.ChordalHand == nil {
		return keycode.HandUnknown
	}
	return r.cfg.ChordalHand(pos)
}

// Press feeds a physical key-down for a morse-like KeyAction into the held
// buffer: either re-arming an entry left waiting out the inter-tap gap
// (continuing a multi-tap pattern) or opening a brand-new entry.
func (r *Resolver) Press(ev keycode.KeyEvent, ka keycode.KeyAction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table := r.tableFor(ka)
	for _, hk := range r.held {
		if hk.Pos == ev.Pos && hk.State() == StateReleased {
			_ = hk.fire(context.Background(), triggerRepress)
			hk.TimeoutTime = ev.Timestamp + uint32(table.Profile.HoldTimeoutMs)
			return
		}
	}

	hk := newHeldKey(ev.Pos, r.handAt(ev.Pos), table, ev.Timestamp)
	r.held = append(r.held, hk)
}

// Release feeds a physical key-up for a morse-like key.
func (r *Resolver) Release(ev keycode.KeyEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(ev.Pos)
	if idx < 0 {
		return
	}
	hk := r.held[idx]

	switch hk.State() {
	case StatePressed:
		sym := keycode.SymbolTap
		if ev.Timestamp >= hk.TimeoutTime {
			sym = keycode.SymbolHold
		}
		pattern := hk.Pattern.Append(sym)
		if !hk.Table.HasExtension(pattern) {
			action := hk.Table.ActionFor(pattern)
			r.dispatch.EmitPress(hk.Pos, action, hk.PressTime)
			r.dispatch.EmitRelease(hk.Pos, action, ev.Timestamp)
			r.recordDecision(hk, action, ev.Timestamp)
			r.removeAt(idx)
			return
		}
		hk.Pattern = pattern
		hk.TimeoutTime = ev.Timestamp + uint32(hk.Table.Profile.GapTimeoutMs)
		_ = hk.fire(context.Background(), triggerRelease)

	case StateHolding:
		hk.TimeoutTime = ev.Timestamp + uint32(hk.Table.Profile.GapTimeoutMs)
		_ = hk.fire(context.Background(), triggerReleaseFromHolding)

	case StateProcessedAwait:
		r.dispatch.EmitRelease(hk.Pos, hk.ProcessedAction, ev.Timestamp)
		r.recordDecision(hk, hk.ProcessedAction, ev.Timestamp)
		_ = hk.fire(context.Background(), triggerFinalRelease)
		r.removeAt(idx)
	}
}

// NextTimeout returns the earliest TimeoutTime across all held entries
// still waiting on one (Pressed or Released), so the engine can select on
// a single timer covering every live morse key.
func (r *Resolver) NextTimeout() (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best uint32
	found := false
	for _, hk := range r.held {
		switch hk.State() {
		case StatePressed, StateReleased:
			if !found || hk.TimeoutTime < best {
				best = hk.TimeoutTime
				found = true
			}
		}
	}
	return best, found
}

// ProcessTimeout resolves every held entry whose timeout has elapsed by
// now, in ascending timeout order so output ordering stays deterministic
// when two keys expire close together.
func (r *Resolver) ProcessTimeout(now uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processTimeoutLocked(now)
}

func (r *Resolver) processTimeoutLocked(now uint32) {
	var expired []*HeldKey
	for _, hk := range r.held {
		switch hk.State() {
		case StatePressed, StateReleased:
			if hk.TimeoutTime <= now {
				expired = append(expired, hk)
			}
		}
	}
	sort.SliceStable(expired, func(a, b int) bool { return expired[a].TimeoutTime < expired[b].TimeoutTime })

	// Resolving an entry can remove entries from r.held, so each entry's
	// index is looked up again right before it is resolved.
	for _, hk := range expired {
		for i, cur := range r.held {
			if cur == hk {
				r.resolveTimeoutLocked(i, now)
				break
			}
		}
	}
}

func (r *Resolver) resolveTimeoutLocked(idx int, now uint32) {
	hk := r.held[idx]
	switch hk.State() {
	case StatePressed:
		pattern := hk.Pattern.Append(keycode.SymbolHold)
		if action, ok := hk.Table.PredictFinal(pattern); ok {
			r.dispatch.EmitPress(hk.Pos, action, now)
			hk.Pattern = pattern
			hk.ProcessedAction = action
			r.recordDecision(hk, action, now)
			_ = hk.fire(context.Background(), triggerForceResolve)
			r.flushPending()
			return
		}
		hk.Pattern = pattern
		_ = hk.fire(context.Background(), triggerTimeoutHold)

	case StateReleased:
		action := hk.Table.ActionFor(hk.Pattern)
		r.dispatch.EmitPress(hk.Pos, action, hk.PressTime)
		r.dispatch.EmitRelease(hk.Pos, action, now)
		r.recordDecision(hk, action, now)
		r.removeAt(idx)
		r.flushPending()
	}
}

// NonMorseKey feeds a plain (non-morse) key event through the same pipeline
// so its timing can influence — or be delayed by — any morse key still
// undecided. action is the KeyAction's resolved Action (KASingle entries
// resolve to a single Action immediately; only the timing of dispatch is in
// question here, not what the action is).
func (r *Resolver) NonMorseKey(ev keycode.KeyEvent, action keycode.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.Pressed {
		r.nonMorsePress(ev, action)
		return
	}
	r.nonMorseRelease(ev, action)
}

func (r *Resolver) nonMorsePress(ev keycode.KeyEvent, action keycode.Action) {
	blocking := r.firstBlocking()
	if blocking == nil {
		r.dispatch.EmitPress(ev.Pos, action, ev.Timestamp)
		r.recordEmissionHand(ev.Pos, ev.Timestamp)
		return
	}

	if r.applyIntervention(blocking, ev) {
		r.flushPending()
		r.dispatch.EmitPress(ev.Pos, action, ev.Timestamp)
		r.recordEmissionHand(ev.Pos, ev.Timestamp)
		return
	}

	r.pending = append(r.pending, bufferedEvent{ev, action})
	r.buffered[ev.Pos] = true
}

func (r *Resolver) nonMorseRelease(ev keycode.KeyEvent, action keycode.Action) {
	if r.buffered[ev.Pos] {
		for _, hk := range r.held {
			if hk.State() == StatePressed && r.effectiveMode(hk) == keycode.MorseModePermissiveHold {
				r.resolveForced(hk, ev.Timestamp)
				break
			}
		}
		r.pending = append(r.pending, bufferedEvent{ev, action})
		delete(r.buffered, ev.Pos)
		r.flushPending()
		return
	}
	r.dispatch.EmitRelease(ev.Pos, action, ev.Timestamp)
}

// firstBlocking returns the earliest-pressed held entry still in Pressed or
// Holding state, or nil if no morse key is currently undecided.
func (r *Resolver) firstBlocking() *HeldKey {
	var best *HeldKey
	for _, hk := range r.held {
		switch hk.State() {
		case StatePressed, StateHolding:
			if best == nil || hk.PressTime < best.PressTime {
				best = hk
			}
		}
	}
	return best
}

// applyIntervention evaluates chordal-hold, unilateral-tap, flow-tap, and
// hold-on-other-press against hk given the newly arriving key ev, in that
// precedence order. Returns true if hk was resolved (emitted) as a result,
// meaning ev itself no longer needs buffering.
func (r *Resolver) applyIntervention(hk *HeldKey, ev keycode.KeyEvent) bool {
	handHK := hk.Hand
	handEv := r.handAt(ev.Pos)
	if handHK != keycode.HandUnknown && handEv != keycode.HandUnknown {
		if handHK != handEv {
			r.resolveForced(hk, ev.Timestamp)
		} else {
			r.resolveForcedTap(hk, ev.Timestamp)
		}
		return true
	}

	if r.effectiveUnilateral(hk) && r.lastDecidedHand != keycode.HandUnknown &&
		handHK != keycode.HandUnknown && handHK == r.lastDecidedHand {
		r.resolveForcedTap(hk, ev.Timestamp)
		return true
	}

	if r.cfg.FlowTapThresholdMs > 0 && ev.Timestamp-r.lastEmittedAt < uint32(r.cfg.FlowTapThresholdMs) {
		r.resolveForcedTap(hk, ev.Timestamp)
		return true
	}

	if r.effectiveMode(hk) == keycode.MorseModeHoldOnOtherPress {
		r.resolveForced(hk, ev.Timestamp)
		return true
	}

	return false
}

// resolveForced finalizes hk with a Hold symbol appended to its current
// pattern and fires the resulting action immediately. Forced resolutions
// are terminal: unlike a natural release or timeout, they never wait for a
// further continuation, since the interloper key has already moved on.
func (r *Resolver) resolveForced(hk *HeldKey, now uint32) {
	r.finalizeForced(hk, keycode.SymbolHold, now)
}

// resolveForcedTap finalizes hk with a Tap symbol (chordal same-hand roll,
// unilateral-tap, or flow-tap).
func (r *Resolver) resolveForcedTap(hk *HeldKey, now uint32) {
	r.finalizeForced(hk, keycode.SymbolTap, now)
}

func (r *Resolver) finalizeForced(hk *HeldKey, sym keycode.MorseSymbol, now uint32) {
	if hk.State() != StatePressed && hk.State() != StateHolding {
		return
	}
	pattern := hk.Pattern.Append(sym)
	action := hk.Table.ActionFor(pattern)
	r.dispatch.EmitPress(hk.Pos, action, now)
	hk.Pattern = pattern
	hk.ProcessedAction = action
	r.recordDecision(hk, action, now)
	_ = hk.fire(context.Background(), triggerForceResolve)
}

func (r *Resolver) flushPending() {
	for _, be := range r.pending {
		if be.ev.Pressed {
			r.dispatch.EmitPress(be.ev.Pos, be.action, be.ev.Timestamp)
		} else {
			r.dispatch.EmitRelease(be.ev.Pos, be.action, be.ev.Timestamp)
		}
	}
	r.pending = r.pending[:0]
}

func (r *Resolver) recordDecision(hk *HeldKey, action keycode.Action, now uint32) {
	r.lastEmittedAt = now
	if hk.Hand != keycode.HandUnknown {
		r.lastDecidedHand = hk.Hand
	}
	_ = action
}

func (r *Resolver) recordEmissionHand(pos keycode.Position, now uint32) {
	r.lastEmittedAt = now
	if h := r.handAt(pos); h != keycode.HandUnknown {
		r.lastDecidedHand = h
	}
}

func (r *Resolver) indexOf(pos keycode.Position) int {
	for i, hk := range r.held {
		if hk.Pos == pos {
			switch hk.State() {
			case StatePressed, StateHolding, StateProcessedAwait:
				return i
			}
		}
	}
	return -1
}

func (r *Resolver) removeAt(idx int) {
	r.held = append(r.held[:idx], r.held[idx+1:]...)
}
