// SPDX-License-Identifier: BSD-3-Clause

package keymap

import (
	"fmt"
	"sync"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// MaxLayers bounds the active-layer bitset to a single uint32, matching the
// a compile-time-sized layer activation stack.
const MaxLayers = 32

// StorageNotifier receives mutation notifications from SetActionAt/
// SetEncoderActionAt so a storage service can persist them; the keymap
// itself never blocks on flash.
type StorageNotifier interface {
	NotifyKeymapChange(layer, row, col uint8, action keycode.KeyAction)
	NotifyEncoderChange(layer, idx uint8, action keycode.EncoderAction)
}

// KeyMap is the layered action lookup table plus its mutable layer-
// activation state. Single-writer (the keyboard engine); safe for
// concurrent reads from other services via RWMutex.
type KeyMap struct {
	mu sync.RWMutex

	rows, cols, layers, encoders int

	actions  [][][]keycode.KeyAction    // [layer][row][col]
	encoderA [][]keycode.EncoderAction  // [layer][encoder idx]

	activeLayers uint32 // bitset, bit n set = layer n active
	defaultLayer uint8

	layerCache      [][]uint8 // [row][col] -> layer chosen at press
	layerCacheValid [][]bool

	triLayer *triLayerConfig

	notifier StorageNotifier
}

type triLayerConfig struct {
	lower, upper, adjust uint8
}

// New builds an empty KeyMap of the given dimensions. Every position starts
// KATransparent so an unconfigured keymap behaves as "pass through to
// default layer, which is No".
func New(layers, rows, cols, encoderCount int) *KeyMap {
	km := &KeyMap{
		rows: rows, cols: cols, layers: layers, encoders: encoderCount,
		activeLayers: 0,
		defaultLayer: 0,
	}
	km.actions = make([][][]keycode.KeyAction, layers)
	km.encoderA = make([][]keycode.EncoderAction, layers)
	for l := 0; l < layers; l++ {
		km.actions[l] = make([][]keycode.KeyAction, rows)
		for r := 0; r < rows; r++ {
			km.actions[l][r] = make([]keycode.KeyAction, cols)
			for c := 0; c < cols; c++ {
				km.actions[l][r][c] = keycode.KATransparent
			}
		}
		km.encoderA[l] = make([]keycode.EncoderAction, encoderCount)
	}
	km.layerCache = make([][]uint8, rows)
	km.layerCacheValid = make([][]bool, rows)
	for r := 0; r < rows; r++ {
		km.layerCache[r] = make([]uint8, cols)
		km.layerCacheValid[r] = make([]bool, cols)
	}
	return km
}

// SetNotifier installs the storage notifier used by SetActionAt/
// SetEncoderActionAt.
func (km *KeyMap) SetNotifier(n StorageNotifier) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.notifier = n
}

// SetTriLayer configures lower/upper momentary layers whose simultaneous
// activation implicitly adds adjust to the active set.
func (km *KeyMap) SetTriLayer(lower, upper, adjust uint8) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.triLayer = &triLayerConfig{lower: lower, upper: upper, adjust: adjust}
}

func (km *KeyMap) inBounds(layer int, row, col uint8) bool {
	return layer >= 0 && layer < km.layers && int(row) < km.rows && int(col) < km.cols
}

// GetActionAt returns the raw entry at (layer,row,col), KANo if out of
// bounds.
func (km *KeyMap) GetActionAt(layer uint8, row, col uint8) keycode.KeyAction {
	km.mu.RLock()
	defer km.mu.RUnlock()
	if !km.inBounds(int(layer), row, col) {
		return keycode.KANo
	}
	return km.actions[layer][row][col]
}

// SetActionAt mutates the keymap at (layer,row,col) and notifies the
// storage layer, used by VIA/Vial live keymap editing.
func (km *KeyMap) SetActionAt(layer, row, col uint8, action keycode.KeyAction) error {
	km.mu.Lock()
	defer km.mu.Unlock()
	if !km.inBounds(int(layer), row, col) {
		return fmt.Errorf("%w: layer=%d row=%d col=%d", ErrOutOfBounds, layer, row, col)
	}
	km.actions[layer][row][col] = action
	if km.notifier != nil {
		km.notifier.NotifyKeymapChange(layer, row, col, action)
	}
	return nil
}

// GetEncoderActionAt returns encoder idx's binding on layer.
func (km *KeyMap) GetEncoderActionAt(layer, idx uint8) keycode.EncoderAction {
	km.mu.RLock()
	defer km.mu.RUnlock()
	if int(layer) >= km.layers || int(idx) >= km.encoders {
		return keycode.EncoderAction{}
	}
	return km.encoderA[layer][idx]
}

// SetEncoderActionAt mutates an encoder binding and notifies storage.
func (km *KeyMap) SetEncoderActionAt(layer, idx uint8, action keycode.EncoderAction) error {
	km.mu.Lock()
	defer km.mu.Unlock()
	if int(layer) >= km.layers || int(idx) >= km.encoders {
		return fmt.Errorf("%w: layer=%d idx=%d", ErrOutOfBounds, layer, idx)
	}
	km.encoderA[layer][idx] = action
	if km.notifier != nil {
		km.notifier.NotifyEncoderChange(layer, idx, action)
	}
	return nil
}

// activeLayersDescending returns the currently active layer indices from
// highest to lowest: the highest active index wins when layers overlap.
// Must be called with km.mu held.
func (km *KeyMap) activeLayersDescending() []uint8 {
	var out []uint8
	for l := km.layers - 1; l >= 0; l-- {
		if km.activeLayers&(1<<uint(l)) != 0 {
			out = append(out, uint8(l))
		}
	}
	return out
}

// Resolve returns the topmost non-Transparent action across the active-
// layer stack, falling through to the default layer; No if every layer (and
// the default) is Transparent at this position.
func (km *KeyMap) Resolve(pos keycode.Position) (keycode.KeyAction, uint8) {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.resolveLocked(pos)
}

func (km *KeyMap) resolveLocked(pos keycode.Position) (keycode.KeyAction, uint8) {
	if int(pos.Row) >= km.rows || int(pos.Col) >= km.cols {
		return keycode.KANo, km.defaultLayer
	}
	for _, l := range km.activeLayersDescending() {
		a := km.actions[l][pos.Row][pos.Col]
		if a.Kind != keycode.KeyActionTransparent {
			return a, l
		}
	}
	a := km.actions[km.defaultLayer][pos.Row][pos.Col]
	if a.Kind == keycode.KeyActionTransparent {
		return keycode.KANo, km.defaultLayer
	}
	return a, km.defaultLayer
}

// resolveEncoderLocked mirrors resolveLocked for a rotary encoder's
// synthetic position: topmost active layer's non-transparent binding for
// idx/direction, falling through to the default layer.
func (km *KeyMap) resolveEncoderLocked(idx uint8, clockwise bool) keycode.KeyAction {
	if int(idx) >= km.encoders {
		return keycode.KANo
	}
	pick := func(ea keycode.EncoderAction) keycode.KeyAction {
		if clockwise {
			return ea.Clockwise
		}
		return ea.CounterClockwise
	}
	for _, l := range km.activeLayersDescending() {
		a := pick(km.encoderA[l][idx])
		if a.Kind != keycode.KeyActionTransparent {
			return a
		}
	}
	return pick(km.encoderA[km.defaultLayer][idx])
}

// GetActionWithLayerCache implements the press/release layer-cache
// invariant: on press, resolves and records the chosen layer for this
// position; on release, returns the cached layer's action regardless of
// intervening layer changes. Each position's cache slot is set on the
// first press and consulted exactly once on the matching release.
//
// A rotary encoder's synthetic EncoderPositionBase position never touches
// the matrix grid or its layer cache: encodersvc emits its press/release
// pair back to back with no intervening layer change to race against, so
// each is resolved independently against the encoder binding table.
func (km *KeyMap) GetActionWithLayerCache(ev keycode.KeyEvent) keycode.KeyAction {
	km.mu.Lock()
	defer km.mu.Unlock()

	if ev.Pos.Row >= keycode.EncoderPositionBase {
		return km.resolveEncoderLocked(ev.Pos.Row-keycode.EncoderPositionBase, ev.Pos.Col == 1)
	}

	if int(ev.Pos.Row) >= km.rows || int(ev.Pos.Col) >= km.cols {
		return keycode.KANo
	}

	if ev.Pressed {
		action, layer := km.resolveLocked(ev.Pos)
		km.layerCache[ev.Pos.Row][ev.Pos.Col] = layer
		km.layerCacheValid[ev.Pos.Row][ev.Pos.Col] = true
		return action
	}

	if !km.layerCacheValid[ev.Pos.Row][ev.Pos.Col] {
		// Release with no matching press on record: resolve fresh rather
		// than panic, e.g. after a connection drop cleared held keys.
		action, _ := km.resolveLocked(ev.Pos)
		return action
	}
	layer := km.layerCache[ev.Pos.Row][ev.Pos.Col]
	km.layerCacheValid[ev.Pos.Row][ev.Pos.Col] = false
	return km.actions[layer][ev.Pos.Row][ev.Pos.Col]
}

// ActivateLayer turns layer on (momentary activation).
func (km *KeyMap) ActivateLayer(layer uint8) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.setLayerLocked(layer, true)
}

// DeactivateLayer turns layer off.
func (km *KeyMap) DeactivateLayer(layer uint8) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.setLayerLocked(layer, false)
}

// ToggleLayer flips layer's activation state.
func (km *KeyMap) ToggleLayer(layer uint8) {
	km.mu.Lock()
	defer km.mu.Unlock()
	on := km.activeLayers&(1<<uint(layer)) != 0
	km.setLayerLocked(layer, !on)
}

// ToggleLayerOnly makes layer the only active layer.
func (km *KeyMap) ToggleLayerOnly(layer uint8) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.activeLayers = 0
	km.setLayerLocked(layer, true)
}

// SetDefaultLayer changes the base layer consulted when no active layer
// answers with a non-Transparent action.
func (km *KeyMap) SetDefaultLayer(layer uint8) {
	km.mu.Lock()
	defer km.mu.Unlock()
	if int(layer) < km.layers {
		km.defaultLayer = layer
	}
}

// DefaultLayer returns the current default layer index.
func (km *KeyMap) DefaultLayer() uint8 {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.defaultLayer
}

// IsLayerActive reports whether layer is currently in the active set.
func (km *KeyMap) IsLayerActive(layer uint8) bool {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.activeLayers&(1<<uint(layer)) != 0
}

// LayerCount, Rows, Cols and EncoderCount report this keymap's fixed
// dimensions, used by host-protocol services to bound requested indices.
func (km *KeyMap) LayerCount() int   { return km.layers }
func (km *KeyMap) Rows() int         { return km.rows }
func (km *KeyMap) Cols() int         { return km.cols }
func (km *KeyMap) EncoderCount() int { return km.encoders }

func (km *KeyMap) setLayerLocked(layer uint8, on bool) {
	if int(layer) >= km.layers || int(layer) >= MaxLayers {
		return
	}
	if on {
		km.activeLayers |= 1 << uint(layer)
	} else {
		km.activeLayers &^= 1 << uint(layer)
	}
	km.applyTriLayerLocked()
}

// applyTriLayerLocked implicitly adds/removes the tri-layer "adjust" layer
// when its two momentary halves are both active/inactive.
func (km *KeyMap) applyTriLayerLocked() {
	if km.triLayer == nil {
		return
	}
	lowerOn := km.activeLayers&(1<<uint(km.triLayer.lower)) != 0
	upperOn := km.activeLayers&(1<<uint(km.triLayer.upper)) != 0
	adjustBit := uint32(1) << uint(km.triLayer.adjust)
	if lowerOn && upperOn {
		km.activeLayers |= adjustBit
	} else {
		km.activeLayers &^= adjustBit
	}
}
