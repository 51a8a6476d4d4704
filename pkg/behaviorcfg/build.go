// SPDX-License-Identifier: BSD-3-Clause

package behaviorcfg

import (
	"fmt"

	"github.com/rmkfw/rmk/pkg/autoshift"
	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/keymap"
	"github.com/rmkfw/rmk/pkg/macro"
	"github.com/rmkfw/rmk/pkg/morse"
)

// Runtime is the set of populated engine inputs Build assembles from a
// validated Config: a keymap ready for lookups, the combo and fork
// dispatch tables, a morse table with every entry's timing profile set
// (patterns themselves are edited live via the host keymap-editing
// protocol), and the macro bytecode table.
type Runtime struct {
	KeyMap     *keymap.KeyMap
	Combos     []combo.Combo
	Forks      []fork.Fork
	MorseTable *morse.Table
	MacroTable macro.Table
	Autoshift  autoshift.Config
	FlowTapMs  uint16
	TriLayer   *TriLayerConfig
}

// Build assembles a Runtime from cfg. cfg must already have passed
// Validate (Load guarantees this). Against a hand-built Config that skipped
// Validate, a malformed keymap, encoder, combo or position alias makes Build
// return an error; a malformed fork alias is not reported and resolves to
// KCNo (or zero modifiers).
func Build(cfg *Config) (*Runtime, error) {
	rows := len(cfg.Board.RowPins)
	cols := len(cfg.Board.ColPins)
	encoders := 0
	if len(cfg.Layers) > 0 {
		encoders = len(cfg.Layers[0].Encoders)
	}

	km := keymap.New(len(cfg.Layers), rows, cols, encoders)
	km.SetDefaultLayer(cfg.DefaultLayer)
	if tl := cfg.Behavior.TriLayer; tl != nil {
		km.SetTriLayer(tl.Lower, tl.Upper, tl.Adjust)
	}

	for li, layer := range cfg.Layers {
		for ri, row := range layer.Keys {
			for ci, alias := range row {
				ka, err := keyActionFor(alias)
				if err != nil {
					return nil, fmt.Errorf("layer %d (%s) row %d col %d: %w", li, layer.Name, ri, ci, err)
				}
				if err := km.SetActionAt(uint8(li), uint8(ri), uint8(ci), ka); err != nil {
					return nil, fmt.Errorf("layer %d row %d col %d: %w", li, ri, ci, err)
				}
			}
		}
		for ei, enc := range layer.Encoders {
			cw, err := keyActionFor(enc[0])
			if err != nil {
				return nil, fmt.Errorf("layer %d encoder %d clockwise: %w", li, ei, err)
			}
			ccw, err := keyActionFor(enc[1])
			if err != nil {
				return nil, fmt.Errorf("layer %d encoder %d counter-clockwise: %w", li, ei, err)
			}
			action := keycode.EncoderAction{
				Clockwise:        cw,
				CounterClockwise: ccw,
			}
			if err := km.SetEncoderActionAt(uint8(li), uint8(ei), action); err != nil {
				return nil, fmt.Errorf("layer %d encoder %d: %w", li, ei, err)
			}
		}
	}

	combos := make([]combo.Combo, 0, len(cfg.Behavior.Combos))
	for _, cc := range cfg.Behavior.Combos {
		positions := make([]keycode.Position, 0, len(cc.Keys))
		for _, pos := range cc.Keys {
			row, col, err := parsePosition(pos)
			if err != nil {
				return nil, err
			}
			positions = append(positions, keycode.Position{Row: row, Col: col})
		}
		ka, err := keyActionFor(cc.Output)
		if err != nil {
			return nil, fmt.Errorf("combo output: %w", err)
		}
		combos = append(combos, combo.Combo{
			Keys:      positions,
			Output:    ka.Action,
			Layer:     cc.Layer,
			TimeoutMs: cc.TimeoutMs,
		})
	}

	forks := make([]fork.Fork, 0, len(cfg.Behavior.Forks))
	for _, fc := range cfg.Behavior.Forks {
		trigger, _ := ParseKeyCode(fc.Trigger)
		replaceIf, _ := ParseKeyCode(fc.ReplaceIf)
		mods, _ := ParseModifier(fc.CondMods)
		forks = append(forks, fork.Fork{Trigger: trigger, CondMods: mods, ReplaceIf: replaceIf})
	}

	morseCount := 0
	for _, mc := range cfg.Behavior.Morses {
		if int(mc.Index)+1 > morseCount {
			morseCount = int(mc.Index) + 1
		}
	}
	morseTable := morse.NewTable(morseCount)
	for _, mc := range cfg.Behavior.Morses {
		profile := keycode.MorseProfile{HoldTimeoutMs: mc.HoldTimeoutMs, GapTimeoutMs: mc.GapTimeoutMs}
		if profile.HoldTimeoutMs == 0 {
			profile.HoldTimeoutMs = cfg.Behavior.TapHold.HoldTimeoutMs
		}
		if profile.GapTimeoutMs == 0 {
			profile.GapTimeoutMs = cfg.Behavior.TapHold.GapTimeoutMs
		}
		if cfg.Behavior.TapHold.Unilateral {
			profile.UnilateralTap = keycode.OptTrue
		}
		morseTable.Set(int(mc.Index), keycode.NewMorse(profile))
	}

	macroTable := macro.Table{Blobs: make(map[uint8][]byte, len(cfg.Behavior.Macros))}
	for _, mc := range cfg.Behavior.Macros {
		blob := append([]byte(mc.Text), 0x00)
		macroTable.Blobs[mc.Index] = blob
	}

	autoshiftCfg := autoshift.Config{
		Enabled:   cfg.Behavior.Autoshift.Enabled,
		Letters:   cfg.Behavior.Autoshift.Letters,
		Numbers:   cfg.Behavior.Autoshift.Numbers,
		Symbols:   cfg.Behavior.Autoshift.Symbols,
		TimeoutMs: cfg.Behavior.Autoshift.TimeoutMs,
	}

	return &Runtime{
		KeyMap:     km,
		Combos:     combos,
		Forks:      forks,
		MorseTable: morseTable,
		MacroTable: macroTable,
		Autoshift:  autoshiftCfg,
		FlowTapMs:  cfg.Behavior.FlowTapMs,
		TriLayer:   cfg.Behavior.TriLayer,
	}, nil
}

// keyActionFor resolves a keymap.toml cell to a KeyAction: transparent,
// or a single immediate Action wrapping the resolved keycode.
func keyActionFor(alias string) (keycode.KeyAction, error) {
	if isTransparentAlias(alias) {
		return keycode.KATransparent, nil
	}
	kc, ok := ParseKeyCode(alias)
	if !ok {
		return keycode.KeyAction{}, fmt.Errorf("%w: %q", ErrUnknownKeycode, alias)
	}
	return keycode.KASingle(keycode.Key(kc)), nil
}

// ka2ea extracts the plain Action a single-action KeyAction wraps, or No
// for a transparent encoder binding.
func ka2ea(ka keycode.KeyAction) keycode.Action {
	if ka.Kind == keycode.KeyActionSingle {
		return ka.Action
	}
	return keycode.No
}
