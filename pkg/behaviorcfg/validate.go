// SPDX-License-Identifier: BSD-3-Clause

package behaviorcfg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rmkfw/rmk/pkg/macro"
)

// ComboMaxNum bounds how many combo entries a keyboard.toml may declare,
// matching the live keymap-editing protocol's fixed combo table size.
const ComboMaxNum = 32

// MaxTapsPerMorse bounds a morse entry's tap count to what
// keycode.MorsePattern's 16-bit, sentinel-plus-one-bit-per-symbol encoding
// can address (15 symbol bits).
const MaxTapsPerMorse = 15

// Validate checks every cross-reference and bound a Config's fields must
// satisfy before it can be built into runtime types: layer indices within
// range, matrix-shaped layers, resolvable keycode aliases, morse/combo
// table sizes within protocol limits. Load always calls this; Validate is
// exported so a CLI can run it standalone against a candidate file.
func (c *Config) Validate() error {
	rows := len(c.Board.RowPins)
	cols := len(c.Board.ColPins)

	if len(c.Layers) == 0 {
		return ErrNoLayers
	}
	if int(c.DefaultLayer) >= len(c.Layers) {
		return fmt.Errorf("%w: default_layer %d, have %d layers", ErrLayerIndexOutOfRange, c.DefaultLayer, len(c.Layers))
	}

	for li, layer := range c.Layers {
		if len(layer.Keys) != rows {
			return fmt.Errorf("%w: layer %d has %d rows, board declares %d", ErrLayerShapeMismatch, li, len(layer.Keys), rows)
		}
		for ri, row := range layer.Keys {
			if len(row) != cols {
				return fmt.Errorf("%w: layer %d row %d has %d cols, board declares %d", ErrLayerShapeMismatch, li, ri, len(row), cols)
			}
			for _, alias := range row {
				if !isTransparentAlias(alias) {
					if _, ok := ParseKeyCode(alias); !ok {
						return fmt.Errorf("%w: %q (layer %d)", ErrUnknownKeycode, alias, li)
					}
				}
			}
		}
		for _, enc := range layer.Encoders {
			for _, alias := range enc {
				if alias != "" && !isTransparentAlias(alias) {
					if _, ok := ParseKeyCode(alias); !ok {
						return fmt.Errorf("%w: %q (layer %d encoder)", ErrUnknownKeycode, alias, li)
					}
				}
			}
		}
	}

	if tl := c.Behavior.TriLayer; tl != nil {
		for _, l := range []uint8{tl.Lower, tl.Upper, tl.Adjust} {
			if int(l) >= len(c.Layers) {
				return fmt.Errorf("%w: tri_layer references layer %d, have %d layers", ErrLayerIndexOutOfRange, l, len(c.Layers))
			}
		}
	}

	if len(c.Behavior.Combos) > ComboMaxNum {
		return fmt.Errorf("%w: %d combos, max %d", ErrTooManyCombos, len(c.Behavior.Combos), ComboMaxNum)
	}
	for ci, combo := range c.Behavior.Combos {
		if len(combo.Keys) < 2 {
			return fmt.Errorf("%w: combo %d", ErrComboTooFewMembers, ci)
		}
		for _, pos := range combo.Keys {
			row, col, err := parsePosition(pos)
			if err != nil {
				return fmt.Errorf("combo %d: %w", ci, err)
			}
			if int(row) >= rows || int(col) >= cols {
				return fmt.Errorf("%w: combo %d position %q", ErrComboMembersOutOfRange, ci, pos)
			}
		}
		if !isTransparentAlias(combo.Output) {
			if _, ok := ParseKeyCode(combo.Output); !ok {
				return fmt.Errorf("%w: combo %d output %q", ErrUnknownKeycode, ci, combo.Output)
			}
		}
		if combo.Layer != nil && int(*combo.Layer) >= len(c.Layers) {
			return fmt.Errorf("%w: combo %d layer %d", ErrLayerIndexOutOfRange, ci, *combo.Layer)
		}
	}

	for fi, fork := range c.Behavior.Forks {
		if _, ok := ParseKeyCode(fork.Trigger); !ok {
			return fmt.Errorf("%w: fork %d trigger %q", ErrUnknownKeycode, fi, fork.Trigger)
		}
		if _, ok := ParseKeyCode(fork.ReplaceIf); !ok {
			return fmt.Errorf("%w: fork %d replace_if %q", ErrUnknownKeycode, fi, fork.ReplaceIf)
		}
		if _, ok := ParseModifier(fork.CondMods); !ok {
			return fmt.Errorf("behaviorcfg: fork %d cond_mods %q: %w", fi, fork.CondMods, ErrUnknownKeycode)
		}
	}

	seen := make(map[uint8]bool, len(c.Behavior.Morses))
	for mi, m := range c.Behavior.Morses {
		if seen[m.Index] {
			return fmt.Errorf("%w: index %d", ErrDuplicateMorseIndex, m.Index)
		}
		seen[m.Index] = true
		if m.MaxTaps > MaxTapsPerMorse {
			return fmt.Errorf("%w: morse %d declares %d taps, max %d", ErrTooManyMorseTaps, mi, m.MaxTaps, MaxTapsPerMorse)
		}
	}

	if len(c.Behavior.Macros) > macro.MaxMacros {
		return fmt.Errorf("behaviorcfg: %d macros, max %d", len(c.Behavior.Macros), macro.MaxMacros)
	}
	total := 0
	for _, m := range c.Behavior.Macros {
		total += len(m.Text) + 1 // +1 for the implicit 0x00 terminator
	}
	if total > macro.SpaceSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrMacroSpaceExceeded, total, macro.SpaceSize)
	}

	return nil
}

func isTransparentAlias(alias string) bool {
	switch strings.ToUpper(strings.TrimSpace(alias)) {
	case "", "KC_TRNS", "KC_TRANSPARENT":
		return true
	default:
		return false
	}
}

func parsePosition(pos string) (row, col uint8, err error) {
	parts := strings.SplitN(pos, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPosition, pos)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || r < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPosition, pos)
	}
	cl, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || cl < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPosition, pos)
	}
	return uint8(r), uint8(cl), nil
}
