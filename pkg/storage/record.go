// SPDX-License-Identifier: BSD-3-Clause

package storage

import (
	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/keycode"
)

// RecordKind selects one of the buckets a Record lives in, mirroring
// the original firmware's 32-bit key encodes record-kind and sub-index; here the
// kind picks the bbolt bucket and the sub-index becomes the in-bucket key,
// since bbolt already gives us a namespaced keyspace per bucket.
type RecordKind uint8

const (
	RecordKeymapKey RecordKind = iota
	RecordEncoder
	RecordMacro
	RecordCombo
	RecordFork
	RecordMorse
	RecordActiveBleProfile
	RecordConnectionType
	RecordProfileInfo
)

// bucketNames gives every RecordKind's bbolt bucket name.
var bucketNames = map[RecordKind]string{
	RecordKeymapKey:        "keymap",
	RecordEncoder:          "encoder",
	RecordMacro:            "macro",
	RecordCombo:            "combo",
	RecordFork:             "fork",
	RecordMorse:            "morse",
	RecordActiveBleProfile: "bleprofile",
	RecordConnectionType:   "connstate",
	RecordProfileInfo:      "profileinfo",
}

func (k RecordKind) bucket() []byte { return []byte(bucketNames[k]) }

// allBuckets lists every bucket a fresh database must have, so boot can
// create them all up front rather than lazily on first write.
func allBuckets() []RecordKind {
	return []RecordKind{
		RecordKeymapKey, RecordEncoder, RecordMacro, RecordCombo, RecordFork,
		RecordMorse, RecordActiveBleProfile, RecordConnectionType, RecordProfileInfo,
	}
}

// keymapKey packs (layer, row, col) into the in-bucket key for a keymap
// override record.
func keymapKey(layer, row, col uint8) [3]byte { return [3]byte{layer, row, col} }

// encoderKey packs (layer, idx) into the in-bucket key for an encoder
// binding record.
func encoderKey(layer, idx uint8) [2]byte { return [2]byte{layer, idx} }

// singletonKey is the fixed in-bucket key for a record kind that holds
// exactly one global value (macro blob, active profile, connection type).
var singletonKey = [1]byte{0}

// ProfileInfo is the persisted per-BLE-profile bonding/subscription state:
// whether a bond exists and whether the host's CCCD (notification-enable)
// bit is set, so a reconnect doesn't need the host to re-subscribe.
type ProfileInfo struct {
	Bonded      bool
	CCCDEnabled bool
}

// KeymapKeyWrite is a pending write of one keymap override, submitted over
// the storage write channel.
type KeymapKeyWrite struct {
	Layer, Row, Col uint8
	Action          keycode.KeyAction
}

// EncoderWrite is a pending write of one encoder binding.
type EncoderWrite struct {
	Layer, Idx uint8
	Action     keycode.EncoderAction
}

// MacroWrite replaces the whole macro blob.
type MacroWrite struct {
	Bytes []byte
}

// ComboWrite is a pending write of one combo slot.
type ComboWrite struct {
	Idx   uint8
	Combo combo.Combo
}

// ForkWrite is a pending write of one fork slot.
type ForkWrite struct {
	Idx  uint8
	Fork fork.Fork
}

// MorseWrite is a pending write of one morse table slot.
type MorseWrite struct {
	Idx   uint8
	Morse keycode.Morse
}

// ActiveBleProfileWrite sets the currently active BLE bonding slot.
type ActiveBleProfileWrite struct {
	Profile uint8
}

// ConnectionTypeWrite sets the persisted preferred connection type (USB or
// BLE), consulted on boot before a host connects.
type ConnectionTypeWrite struct {
	ConnectionType uint8
}

// ProfileInfoWrite is a pending write of one BLE profile's bond/CCCD state.
type ProfileInfoWrite struct {
	Profile uint8
	Info    ProfileInfo
}

// ClearSlot removes one BLE profile's ProfileInfo record.
type ClearSlot struct {
	Profile uint8
}

// Reset wipes every bucket back to empty, a factory reset of all
// persisted configuration.
type Reset struct{}
