// SPDX-License-Identifier: BSD-3-Clause

package action

import (
	"sync"

	"github.com/rmkfw/rmk/pkg/autoshift"
	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/hidreport"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/keymap"
	"github.com/rmkfw/rmk/pkg/morse"
)

// Reporter receives finished HID reports, one per modifier/slot/button
// mutation. The keyboard engine never batches — each state change is its
// own report, matching a real HID boot-protocol device.
type Reporter interface {
	Report(r hidreport.Report)
}

// Forker rewrites a plain key press based on currently-held modifiers,
// implemented by pkg/fork. Nil disables fork rewriting entirely.
type Forker interface {
	Rewrite(trigger keycode.KeyCode, mods keycode.ModifierCombination) keycode.KeyCode
}

// MacroRunner dispatches a TriggerMacro action, implemented by pkg/macro.
type MacroRunner interface {
	Trigger(idx uint8)
}

// MouseDriver drives the acceleration curve for mouse-movement/button
// keys, implemented by pkg/mouse. It owns its own report emission via the
// same Reporter.
type MouseDriver interface {
	Press(kc keycode.KeyCode, now uint32)
	Release(kc keycode.KeyCode, now uint32)
}

// UserHandler receives ActionUser dispatch, e.g. to forward across a split
// link.
type UserHandler interface {
	HandleUser(idx uint8, pressed bool)
}

type oneShotPhase uint8

const (
	oneShotInactive oneShotPhase = iota
	oneShotArmed
	oneShotHeld
)

type oneShotModState struct {
	phase oneShotPhase
	mods  keycode.ModifierCombination
	pos   keycode.Position
}

type oneShotLayerState struct {
	phase oneShotPhase
	layer uint8
	pos   keycode.Position
}

// Engine is the modifier register, keycode slot set, and Action dispatcher.
// One Engine per keyboard (or per split half's local contribution, merged
// centrally); not safe for concurrent HandleKeyEvent calls from
// more than one goroutine, matching the single engine-goroutine shape the
// rest of the pipeline assumes.
type Engine struct {
	mu sync.Mutex

	km       *keymap.KeyMap
	reporter Reporter
	morse    *morse.Resolver
	combos   *combo.Engine

	forks  Forker
	macros MacroRunner
	mouse  MouseDriver
	user   UserHandler

	mods  keycode.ModifierCombination
	slots [6]keycode.KeyCode

	osMod   oneShotModState
	osLayer oneShotLayerState

	tabberActive bool
	tabberMods   keycode.ModifierCombination

	triLower, triUpper uint8
	triLayerSet        bool

	mediaUsage  uint16
	systemUsage uint8

	autoShift autoshift.Config
}

// SetAutoShift installs the auto-shift configuration; Config{} (zero value,
// Enabled false) disables it.
func (e *Engine) SetAutoShift(cfg autoshift.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoShift = cfg
}

// New builds an Engine wired to km for layer mutation and reporter for HID
// output. Sub-dispatchers (forks/macros/mouse/user) may be attached after
// construction via the With* setters since they're typically built after
// the engine (they may need to call back into it).
func New(km *keymap.KeyMap, reporter Reporter) *Engine {
	e := &Engine{km: km, reporter: reporter}
	e.morse = morse.New(morse.Config{DefaultMode: keycode.MorseModeNormal}, e, nil)
	return e
}

// MorseResolver returns the engine's morse resolver, so callers can
// reconfigure it (chordal-hand function, flow-tap threshold) or feed it a
// TableProvider once behaviorcfg has loaded the morse tables.
func (e *Engine) MorseResolver() *morse.Resolver { return e.morse }

// SetMorseResolver replaces the engine's resolver wholesale, used once
// behaviorcfg has the real Config/TableProvider available at boot.
func (e *Engine) SetMorseResolver(r *morse.Resolver) { e.morse = r }

func (e *Engine) SetForker(f Forker)         { e.forks = f }
func (e *Engine) SetMacroRunner(m MacroRunner) { e.macros = m }
func (e *Engine) SetMouseDriver(m MouseDriver) { e.mouse = m }
func (e *Engine) SetUserHandler(u UserHandler) { e.user = u }

// SetCombos installs a combo engine in front of the morse resolver: combo
// member positions are buffered and resolved by longest match before
// anything reaches morse/plain dispatch, per behaviorcfg's combo table.
func (e *Engine) SetCombos(c *combo.Engine) { e.combos = c }

// NewCombos builds a combo engine from a static combo list, wired to
// dispatch through this Engine's morse resolver. Callers install the
// result with SetCombos once behaviorcfg has loaded the combo table.
func (e *Engine) NewCombos(combos []combo.Combo) *combo.Engine {
	return combo.New(combos, comboToMorse{r: e.morse})
}

// comboToMorse adapts combo.Dispatcher onto the engine's morse resolver, so
// a combo's own output (or a passed-through member) still interacts with
// any other currently-held morse key exactly like an ordinary non-morse
// key would.
type comboToMorse struct{ r *morse.Resolver }

func (a comboToMorse) EmitPress(pos keycode.Position, act keycode.Action, t uint32) {
	a.r.NonMorseKey(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: t}, act)
}

func (a comboToMorse) EmitRelease(pos keycode.Position, act keycode.Action, t uint32) {
	a.r.NonMorseKey(keycode.KeyEvent{Pos: pos, Pressed: false, Timestamp: t}, act)
}

// SetTriLayer records which layer indices ActionTriLayerLower/Upper toggle;
// independent of keymap.SetTriLayer, which only governs the implicit
// adjust-layer activation bitset.
func (e *Engine) SetTriLayer(lower, upper uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.triLower, e.triUpper = lower, upper
	e.triLayerSet = true
}

// HandleKeyEvent is the entry point from the matrix/encoder/split event
// bus: resolve the position's KeyAction with the layer cache, then route
// through the morse resolver (every key, morse-like or not, passes through
// it so timing-sensitive interactions are honored).
func (e *Engine) HandleKeyEvent(ev keycode.KeyEvent) {
	ka := e.km.GetActionWithLayerCache(ev)
	if ka.Kind == keycode.KeyActionNo {
		return
	}
	e.mu.Lock()
	cfg := e.autoShift
	e.mu.Unlock()
	ka = autoshift.Wrap(ka, cfg)
	if ka.IsMorseLike() {
		if ev.Pressed {
			e.morse.Press(ev, ka)
		} else {
			e.morse.Release(ev)
		}
		return
	}

	var a keycode.Action
	switch ka.Kind {
	case keycode.KeyActionSingle, keycode.KeyActionTap:
		a = ka.Action
	default:
		return
	}
	if e.combos != nil {
		if ev.Pressed {
			e.combos.Press(ev, a)
		} else {
			e.combos.Release(ev, a)
		}
		return
	}
	e.morse.NonMorseKey(ev, a)
}

// Tick drives any morse keys past their timeout and any buffered combo past
// its resolution window (the mouse driver runs its own repeat ticker);
// callers select on NextTimeout's deadline to know when to call this.
func (e *Engine) Tick(now uint32) {
	e.morse.ProcessTimeout(now)
	if e.combos != nil {
		e.combos.ProcessTimeout(now)
	}
}

// NextTimeout returns the earliest of the morse resolver's and the combo
// engine's pending deadlines, so a caller's select loop knows when to call
// Tick next.
func (e *Engine) NextTimeout() (uint32, bool) {
	t, ok := e.morse.NextTimeout()
	if e.combos == nil {
		return t, ok
	}
	ct, cok := e.combos.NextTimeout()
	switch {
	case !ok:
		return ct, cok
	case !cok:
		return t, ok
	case ct < t:
		return ct, true
	default:
		return t, true
	}
}

// EmitPress implements morse.Dispatcher: the morse resolver (or the
// pass-through for a plain key) has decided pos's action fires now.
func (e *Engine) EmitPress(pos keycode.Position, a keycode.Action, now uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pressLocked(pos, a, now)
}

// EmitRelease implements morse.Dispatcher.
func (e *Engine) EmitRelease(pos keycode.Position, a keycode.Action, now uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked(pos, a, now)
}

func (e *Engine) pressLocked(pos keycode.Position, a keycode.Action, now uint32) {
	switch a.Kind {
	case keycode.ActionNo, keycode.ActionTransparent:

	case keycode.ActionKey:
		e.pressKeycodeLocked(pos, a.Code, now)

	case keycode.ActionModifier:
		e.mods |= a.Mods
		e.emitKeyboardReport()

	case keycode.ActionKeyWithModifier:
		e.mods |= a.Mods
		e.emitKeyboardReport()
		e.insertSlotLocked(a.Code)
		e.emitKeyboardReport()

	case keycode.ActionLayerOn, keycode.ActionLayerOnWithModifier:
		e.km.ActivateLayer(a.Layer)
		if a.Kind == keycode.ActionLayerOnWithModifier {
			e.mods |= a.Mods
			e.emitKeyboardReport()
		}

	case keycode.ActionLayerOff:
		e.km.DeactivateLayer(a.Layer)

	case keycode.ActionLayerToggle:
		e.km.ToggleLayer(a.Layer)

	case keycode.ActionLayerToggleOnly:
		e.km.ToggleLayerOnly(a.Layer)

	case keycode.ActionDefaultLayer:
		e.km.SetDefaultLayer(a.Layer)

	case keycode.ActionOneShotModifier:
		e.pressOneShotModLocked(pos, a.Mods)

	case keycode.ActionOneShotLayer:
		e.pressOneShotLayerLocked(pos, a.Layer)

	case keycode.ActionOneShotKey:
		e.insertSlotLocked(a.Code)
		e.emitKeyboardReport()

	case keycode.ActionTriggerMacro:
		if e.macros != nil {
			e.macros.Trigger(a.Index)
		}

	case keycode.ActionTabber:
		e.pressTabberLocked(a.Mods)

	case keycode.ActionTriLayerLower:
		if e.triLayerSet {
			e.km.ActivateLayer(e.triLower)
		}

	case keycode.ActionTriLayerUpper:
		if e.triLayerSet {
			e.km.ActivateLayer(e.triUpper)
		}

	case keycode.ActionUser:
		if e.user != nil {
			e.user.HandleUser(a.Index, true)
		}
	}
}

func (e *Engine) releaseLocked(pos keycode.Position, a keycode.Action, now uint32) {
	switch a.Kind {
	case keycode.ActionNo, keycode.ActionTransparent:

	case keycode.ActionKey:
		e.releaseKeycodeLocked(a.Code, now)
		e.retireOneShotsLocked(a.Code)

	case keycode.ActionModifier:
		e.mods &^= a.Mods
		e.emitKeyboardReport()

	case keycode.ActionKeyWithModifier:
		e.removeSlotLocked(a.Code)
		e.mods &^= a.Mods
		e.emitKeyboardReport()
		e.retireOneShotsLocked(a.Code)

	case keycode.ActionLayerOn, keycode.ActionLayerOnWithModifier:
		e.km.DeactivateLayer(a.Layer)
		if a.Kind == keycode.ActionLayerOnWithModifier {
			e.mods &^= a.Mods
			e.emitKeyboardReport()
		}
		if e.tabberActive {
			e.tabberActive = false
			e.mods &^= e.tabberMods
			e.emitKeyboardReport()
		}

	case keycode.ActionOneShotModifier:
		e.releaseOneShotModLocked(pos)

	case keycode.ActionOneShotLayer:
		e.releaseOneShotLayerLocked(pos)

	case keycode.ActionOneShotKey:
		e.removeSlotLocked(a.Code)
		e.emitKeyboardReport()

	case keycode.ActionTriLayerLower:
		if e.triLayerSet {
			e.km.DeactivateLayer(e.triLower)
		}

	case keycode.ActionTriLayerUpper:
		if e.triLayerSet {
			e.km.DeactivateLayer(e.triUpper)
		}

	case keycode.ActionUser:
		if e.user != nil {
			e.user.HandleUser(a.Index, false)
		}
	}
}

// PressKeycode and ReleaseKeycode let a source with no matrix position of
// its own (a macro) drive the modifier
// register and keycode slots directly, implementing macro.KeyDriver.
func (e *Engine) PressKeycode(kc keycode.KeyCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pressKeycodeLocked(keycode.Position{}, kc, 0)
}

func (e *Engine) ReleaseKeycode(kc keycode.KeyCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseKeycodeLocked(kc, 0)
}

func (e *Engine) pressKeycodeLocked(pos keycode.Position, kc keycode.KeyCode, now uint32) {
	switch {
	case kc.IsMouseKey():
		if e.mouse != nil {
			e.mouse.Press(kc, now)
		}
	case kc.IsMediaKey():
		e.mediaUsage = uint16(kc)
		e.reporter.Report(hidreport.NewMediaReport(hidreport.MediaKeyboardReport{UsageID: e.mediaUsage}))
	case kc.IsSystemKey():
		e.systemUsage = uint8(kc)
		e.reporter.Report(hidreport.NewSystemReport(hidreport.SystemControlReport{UsageID: e.systemUsage}))
	case kc.IsModifierKey():
		e.mods |= kc.ModifierBit()
		e.emitKeyboardReport()
	default:
		if e.forks != nil {
			kc = e.forks.Rewrite(kc, e.mods)
		}
		e.insertSlotLocked(kc)
		e.emitKeyboardReport()
	}
}

func (e *Engine) releaseKeycodeLocked(kc keycode.KeyCode, now uint32) {
	switch {
	case kc.IsMouseKey():
		if e.mouse != nil {
			e.mouse.Release(kc, now)
		}
	case kc.IsMediaKey():
		e.mediaUsage = 0
		e.reporter.Report(hidreport.NewMediaReport(hidreport.MediaKeyboardReport{UsageID: 0}))
	case kc.IsSystemKey():
		e.systemUsage = 0
		e.reporter.Report(hidreport.NewSystemReport(hidreport.SystemControlReport{UsageID: 0}))
	case kc.IsModifierKey():
		e.mods &^= kc.ModifierBit()
		e.emitKeyboardReport()
	default:
		e.removeSlotLocked(kc)
		e.emitKeyboardReport()
	}
}

// insertSlotLocked places kc in the lowest empty slot, silently dropping the
// press if all six are full (no ErrSlotsFull is returned or logged).
func (e *Engine) insertSlotLocked(kc keycode.KeyCode) {
	for i, s := range e.slots {
		if s == keycode.KCNo {
			e.slots[i] = kc
			return
		}
	}
}

// removeSlotLocked clears kc's slot without shifting the others, so a
// still-held key keeps its slot and can't be ghost-repressed into another
// key's position.
func (e *Engine) removeSlotLocked(kc keycode.KeyCode) {
	for i, s := range e.slots {
		if s == kc {
			e.slots[i] = keycode.KCNo
			return
		}
	}
}

func (e *Engine) emitKeyboardReport() {
	var keys [6]byte
	for i, kc := range e.slots {
		keys[i] = byte(kc)
	}
	e.reporter.Report(hidreport.NewKeyboardReport(hidreport.KeyboardReport{
		Modifier: byte(e.mods),
		Keys:     keys,
	}))
}

func (e *Engine) pressOneShotModLocked(pos keycode.Position, mods keycode.ModifierCombination) {
	switch e.osMod.phase {
	case oneShotArmed:
		if e.osMod.pos == pos {
			e.osMod.phase = oneShotHeld
		} else {
			e.osMod.mods |= mods
			e.osMod.pos = pos
		}
	case oneShotHeld:
		e.osMod.mods |= mods
	default:
		e.osMod = oneShotModState{phase: oneShotArmed, mods: mods, pos: pos}
	}
	e.mods |= e.osMod.mods
	e.emitKeyboardReport()
}

func (e *Engine) releaseOneShotModLocked(pos keycode.Position) {
	// Releasing the one-shot key itself never retires it while merely
	// Armed — it stays in effect, waiting for the next key's release, per
	// spec. Only once a re-press promoted it to Held does its own release
	// behave like an ordinary modifier release.
	if e.osMod.phase == oneShotHeld && e.osMod.pos == pos {
		e.mods &^= e.osMod.mods
		e.osMod = oneShotModState{}
		e.emitKeyboardReport()
	}
}

func (e *Engine) pressOneShotLayerLocked(pos keycode.Position, layer uint8) {
	switch e.osLayer.phase {
	case oneShotArmed:
		if e.osLayer.pos == pos {
			e.osLayer.phase = oneShotHeld
		}
	case oneShotHeld:
	default:
		e.osLayer = oneShotLayerState{phase: oneShotArmed, layer: layer, pos: pos}
		e.km.ActivateLayer(layer)
	}
}

// releaseOneShotLayerLocked mirrors releaseOneShotModLocked: releasing the
// one-shot key itself while merely Armed never retires the layer — it
// stays active until the next triggered key's release (retireOneShotsLocked).
func (e *Engine) releaseOneShotLayerLocked(pos keycode.Position) {
	if e.osLayer.phase == oneShotHeld && e.osLayer.pos == pos {
		e.km.DeactivateLayer(e.osLayer.layer)
		e.osLayer = oneShotLayerState{}
	}
}

// retireOneShotsLocked is called on the release of any ordinary key; per
// spec a one-shot stays in effect across its triggering press and retires
// on that triggered key's release.
func (e *Engine) retireOneShotsLocked(kc keycode.KeyCode) {
	if e.osMod.phase == oneShotArmed {
		e.mods &^= e.osMod.mods
		e.osMod = oneShotModState{}
		e.emitKeyboardReport()
	}
	if e.osLayer.phase == oneShotArmed {
		e.km.DeactivateLayer(e.osLayer.layer)
		e.osLayer = oneShotLayerState{}
	}
}

func (e *Engine) pressTabberLocked(mods keycode.ModifierCombination) {
	if !e.tabberActive {
		e.tabberActive = true
		e.tabberMods = mods
		e.mods |= mods
		e.emitKeyboardReport()
	}
	e.insertSlotLocked(keycode.KCTab)
	e.emitKeyboardReport()
	e.removeSlotLocked(keycode.KCTab)
	e.emitKeyboardReport()
}
