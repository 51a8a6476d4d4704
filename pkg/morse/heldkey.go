// SPDX-License-Identifier: BSD-3-Clause

package morse

import (
	"context"
	"fmt"

	"github.com/qmuntal/stateless"
	"github.com/rmkfw/rmk/pkg/keycode"
)

// HeldKeyState is the lifecycle of a single morse-like key from first press
// to final release, per the four states in the decision model: Pressed
// (timing out toward Hold), Holding (ambiguous, no active timeout, waiting
// on release), Released (pattern complete so far, waiting out the
// inter-symbol gap for a possible continuation), and ProcessedButRelease-
// NotReportedYet (the output action already fired, physical key still down).
type HeldKeyState string

const (
	StatePressed        HeldKeyState = "pressed"
	StateHolding        HeldKeyState = "holding"
	StateReleased       HeldKeyState = "released"
	StateProcessedAwait HeldKeyState = "processed_await_release"
)

type heldKeyTrigger string

const (
	triggerTimeoutHold   heldKeyTrigger = "timeout_hold"
	triggerTimeoutGap    heldKeyTrigger = "timeout_gap"
	triggerRelease       heldKeyTrigger = "release"
	triggerReleaseFromHolding heldKeyTrigger = "release_from_holding"
	triggerRepress       heldKeyTrigger = "repress"
	triggerForceResolve  heldKeyTrigger = "force_resolve"
	triggerFinalRelease  heldKeyTrigger = "final_release"
)

// HeldKey is one entry in the resolver's held-key buffer.
type HeldKey struct {
	Pos  keycode.Position
	Hand keycode.Hand

	Table keycode.Morse

	Pattern keycode.MorsePattern

	PressTime   uint32
	TimeoutTime uint32

	ProcessedAction keycode.Action

	sm *stateless.StateMachine
}

// newHeldKey builds a fresh entry in StatePressed, armed with the hold
// timeout from its profile.
func newHeldKey(pos keycode.Position, hand keycode.Hand, table keycode.Morse, now uint32) *HeldKey {
	hk := &HeldKey{
		Pos:         pos,
		Hand:        hand,
		Table:       table,
		Pattern:     keycode.NewMorsePattern(),
		PressTime:   now,
		TimeoutTime: now + uint32(table.Profile.HoldTimeoutMs),
	}
	hk.configure()
	return hk
}

// configure wires up the stateless machine covering the four states. The
// machine only enforces which transitions are legal; the resolver methods
// perform the actual pattern-bit and dispatch work before/after firing a
// trigger, keeping the decision algorithm itself in plain Go rather than
// spread across OnEntry callbacks.
func (hk *HeldKey) configure() {
	hk.sm = stateless.NewStateMachine(StatePressed)
	hk.sm.Configure(StatePressed).
		Permit(triggerTimeoutHold, StateHolding).
		Permit(triggerForceResolve, StateProcessedAwait).
		Permit(triggerRelease, StateReleased).
		Permit(triggerFinalRelease, StateReleased) // terminal tap fires and removes immediately; state is transient

	hk.sm.Configure(StateHolding).
		Permit(triggerReleaseFromHolding, StateReleased).
		Permit(triggerForceResolve, StateProcessedAwait)

	hk.sm.Configure(StateReleased).
		PermitReentry(triggerTimeoutGap). // self-loop: terminal, entry removed by caller
		Permit(triggerRepress, StatePressed)

	hk.sm.Configure(StateProcessedAwait).
		Permit(triggerFinalRelease, StateReleased) // terminal, entry removed by caller
}

// State returns the entry's current lifecycle state.
func (hk *HeldKey) State() HeldKeyState {
	return hk.sm.MustState().(HeldKeyState)
}

func (hk *HeldKey) fire(ctx context.Context, trig heldKeyTrigger) error {
	if err := hk.sm.FireCtx(ctx, trig); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	return nil
}
