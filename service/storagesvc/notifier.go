// SPDX-License-Identifier: BSD-3-Clause

package storagesvc

import (
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/storage"
)

// KeymapNotifier adapts a StorageSvc's Store onto pkg/keymap's
// StorageNotifier interface, so KeyMap.SetActionAt/SetEncoderActionAt
// persist every live edit (VIA/Vial keymap editing) without the keymap
// package depending on pkg/storage directly.
type KeymapNotifier struct {
	store *storage.Store
}

// NewKeymapNotifier builds a notifier over store.
func NewKeymapNotifier(store *storage.Store) *KeymapNotifier {
	return &KeymapNotifier{store: store}
}

// NotifyKeymapChange implements keymap.StorageNotifier.
func (n *KeymapNotifier) NotifyKeymapChange(layer, row, col uint8, action keycode.KeyAction) {
	n.store.Submit(storage.KeymapKeyWrite{Layer: layer, Row: row, Col: col, Action: action})
}

// NotifyEncoderChange implements keymap.StorageNotifier.
func (n *KeymapNotifier) NotifyEncoderChange(layer, idx uint8, action keycode.EncoderAction) {
	n.store.Submit(storage.EncoderWrite{Layer: layer, Idx: idx, Action: action})
}
