// SPDX-License-Identifier: BSD-3-Clause

package keycode

// ActionKind tags the variant of an Action.
type ActionKind uint8

const (
	ActionNo ActionKind = iota
	ActionTransparent
	ActionKey
	ActionModifier
	ActionKeyWithModifier
	ActionLayerOn
	ActionLayerOff
	ActionLayerToggle
	ActionLayerToggleOnly
	ActionDefaultLayer
	ActionLayerOnWithModifier
	ActionOneShotLayer
	ActionOneShotModifier
	ActionOneShotKey
	ActionTriggerMacro
	ActionTriLayerLower
	ActionTriLayerUpper
	ActionTabber
	ActionUser
)

// Action is the sum type of single resolved behaviors a KeyAction ultimately
// reduces to. Go has no tagged unions, so Action is a flat struct carrying
// only the fields its Kind uses; zero value is ActionNo.
type Action struct {
	Kind   ActionKind
	Code   KeyCode             // ActionKey, ActionKeyWithModifier, ActionOneShotKey
	Mods   ModifierCombination // ActionModifier, ActionKeyWithModifier, ActionOneShotModifier, ActionLayerOnWithModifier, ActionTabber
	Layer  uint8               // ActionLayerOn/Off/Toggle/ToggleOnly/DefaultLayer/OneShotLayer/LayerOnWithModifier
	Index  uint8               // ActionTriggerMacro, ActionUser
}

// No is the action that produces no effect.
var No = Action{Kind: ActionNo}

// Transparent is the action that defers to the next-lower active layer.
var Transparent = Action{Kind: ActionTransparent}

// Key returns the action that presses/releases a plain keycode.
func Key(kc KeyCode) Action { return Action{Kind: ActionKey, Code: kc} }

// Modifier returns the action that holds a modifier combination.
func Modifier(m ModifierCombination) Action { return Action{Kind: ActionModifier, Mods: m} }

// KeyWithModifier returns the action that holds m for the duration kc is
// held, e.g. a shifted symbol.
func KeyWithModifier(kc KeyCode, m ModifierCombination) Action {
	return Action{Kind: ActionKeyWithModifier, Code: kc, Mods: m}
}

// LayerOn returns the momentary layer-activate action.
func LayerOn(layer uint8) Action { return Action{Kind: ActionLayerOn, Layer: layer} }

// LayerOff returns the momentary layer-deactivate action.
func LayerOff(layer uint8) Action { return Action{Kind: ActionLayerOff, Layer: layer} }

// LayerToggle returns the sticky layer-toggle action.
func LayerToggle(layer uint8) Action { return Action{Kind: ActionLayerToggle, Layer: layer} }

// LayerToggleOnly returns the action that makes layer the only active layer.
func LayerToggleOnly(layer uint8) Action { return Action{Kind: ActionLayerToggleOnly, Layer: layer} }

// DefaultLayer returns the action that changes the default (base) layer.
func DefaultLayer(layer uint8) Action { return Action{Kind: ActionDefaultLayer, Layer: layer} }

// LayerOnWithModifier returns the action that activates layer and holds m
// for as long as it stays active.
func LayerOnWithModifier(layer uint8, m ModifierCombination) Action {
	return Action{Kind: ActionLayerOnWithModifier, Layer: layer, Mods: m}
}

// OneShotLayer returns the action that activates layer for exactly one
// subsequent key.
func OneShotLayer(layer uint8) Action { return Action{Kind: ActionOneShotLayer, Layer: layer} }

// OneShotModifier returns the action that holds m for exactly one
// subsequent key.
func OneShotModifier(m ModifierCombination) Action { return Action{Kind: ActionOneShotModifier, Mods: m} }

// OneShotKey returns the action that emits kc for exactly one subsequent
// key-down (used for sticky-key style accessibility behaviors).
func OneShotKey(kc KeyCode) Action { return Action{Kind: ActionOneShotKey, Code: kc} }

// TriggerMacro returns the action that dispatches macro idx.
func TriggerMacro(idx uint8) Action { return Action{Kind: ActionTriggerMacro, Index: idx} }

// TriLayerLower is the lower half of a tri-layer pair.
var TriLayerLower = Action{Kind: ActionTriLayerLower}

// TriLayerUpper is the upper half of a tri-layer pair.
var TriLayerUpper = Action{Kind: ActionTriLayerUpper}

// Tabber returns the Alt-Tab-style action holding m across repeated taps.
func Tabber(m ModifierCombination) Action { return Action{Kind: ActionTabber, Mods: m} }

// User returns an application-defined action identified by idx, dispatched
// outside the engine (e.g. a split user-event or a host-side macro).
func User(idx uint8) Action { return Action{Kind: ActionUser, Index: idx} }

// IsNoOp reports whether a is No or Transparent — the two actions that never
// themselves produce a HID effect.
func (a Action) IsNoOp() bool { return a.Kind == ActionNo || a.Kind == ActionTransparent }
