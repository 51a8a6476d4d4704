// SPDX-License-Identifier: BSD-3-Clause

package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/keycode"
)

// EncodeAction writes Action's fixed 6-byte wire form: Kind, Code(2),
// Mods, Layer, Index.
func EncodeAction(a keycode.Action) [6]byte {
	var b [6]byte
	b[0] = byte(a.Kind)
	binary.LittleEndian.PutUint16(b[1:3], uint16(a.Code))
	b[3] = byte(a.Mods)
	b[4] = a.Layer
	b[5] = a.Index
	return b
}

func DecodeAction(b []byte) (keycode.Action, error) {
	if len(b) < 6 {
		return keycode.Action{}, fmt.Errorf("%w: action needs 6 bytes, got %d", ErrMalformedRecord, len(b))
	}
	return keycode.Action{
		Kind:  keycode.ActionKind(b[0]),
		Code:  keycode.KeyCode(binary.LittleEndian.Uint16(b[1:3])),
		Mods:  keycode.ModifierCombination(b[3]),
		Layer: b[4],
		Index: b[5],
	}, nil
}

// EncodeKeyAction writes KeyAction's fixed 24-byte wire form: Kind, three
// packed Actions (tap/hold/single share the same layout), the profile
// packed to 4 bytes, and the morse table index.
func EncodeKeyAction(ka keycode.KeyAction) []byte {
	buf := make([]byte, 24)
	buf[0] = byte(ka.Kind)
	act := EncodeAction(ka.Action)
	copy(buf[1:7], act[:])
	tap := EncodeAction(ka.Tap)
	copy(buf[7:13], tap[:])
	hold := EncodeAction(ka.Hold)
	copy(buf[13:19], hold[:])
	binary.LittleEndian.PutUint32(buf[19:23], ka.Profile.Pack())
	buf[23] = ka.MorseIndex
	return buf
}

func DecodeKeyAction(b []byte) (keycode.KeyAction, error) {
	if len(b) != 24 {
		return keycode.KeyAction{}, fmt.Errorf("%w: keyaction needs 24 bytes, got %d", ErrMalformedRecord, len(b))
	}
	action, err := DecodeAction(b[1:7])
	if err != nil {
		return keycode.KeyAction{}, err
	}
	tap, err := DecodeAction(b[7:13])
	if err != nil {
		return keycode.KeyAction{}, err
	}
	hold, err := DecodeAction(b[13:19])
	if err != nil {
		return keycode.KeyAction{}, err
	}
	return keycode.KeyAction{
		Kind:       keycode.KeyActionKind(b[0]),
		Action:     action,
		Tap:        tap,
		Hold:       hold,
		Profile:    keycode.UnpackMorseProfile(binary.LittleEndian.Uint32(b[19:23])),
		MorseIndex: b[23],
	}, nil
}

// EncodeEncoderAction concatenates two KeyAction encodings.
func EncodeEncoderAction(ea keycode.EncoderAction) []byte {
	buf := make([]byte, 48)
	copy(buf[0:24], EncodeKeyAction(ea.Clockwise))
	copy(buf[24:48], EncodeKeyAction(ea.CounterClockwise))
	return buf
}

func DecodeEncoderAction(b []byte) (keycode.EncoderAction, error) {
	if len(b) != 48 {
		return keycode.EncoderAction{}, fmt.Errorf("%w: encoder action needs 48 bytes, got %d", ErrMalformedRecord, len(b))
	}
	cw, err := DecodeKeyAction(b[0:24])
	if err != nil {
		return keycode.EncoderAction{}, err
	}
	ccw, err := DecodeKeyAction(b[24:48])
	if err != nil {
		return keycode.EncoderAction{}, err
	}
	return keycode.EncoderAction{Clockwise: cw, CounterClockwise: ccw}, nil
}

// EncodeFork writes Fork's fixed 5-byte wire form.
func EncodeFork(f fork.Fork) []byte {
	buf := make([]byte, 5)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(f.Trigger))
	buf[2] = byte(f.CondMods)
	binary.LittleEndian.PutUint16(buf[3:5], uint16(f.ReplaceIf))
	return buf
}

func DecodeFork(b []byte) (fork.Fork, error) {
	if len(b) != 5 {
		return fork.Fork{}, fmt.Errorf("%w: fork needs 5 bytes, got %d", ErrMalformedRecord, len(b))
	}
	return fork.Fork{
		Trigger:   keycode.KeyCode(binary.LittleEndian.Uint16(b[0:2])),
		CondMods:  keycode.ModifierCombination(b[2]),
		ReplaceIf: keycode.KeyCode(binary.LittleEndian.Uint16(b[3:5])),
	}, nil
}

// EncodeCombo writes Combo's variable-length wire form: key count, each
// key's (row,col), the output Action, a has-layer flag plus layer byte,
// and the timeout.
func EncodeCombo(c combo.Combo) []byte {
	buf := make([]byte, 0, 1+2*len(c.Keys)+6+2+2)
	buf = append(buf, byte(len(c.Keys)))
	for _, p := range c.Keys {
		buf = append(buf, p.Row, p.Col)
	}
	act := EncodeAction(c.Output)
	buf = append(buf, act[:]...)
	if c.Layer != nil {
		buf = append(buf, 1, *c.Layer)
	} else {
		buf = append(buf, 0, 0)
	}
	timeout := make([]byte, 2)
	binary.LittleEndian.PutUint16(timeout, c.TimeoutMs)
	buf = append(buf, timeout...)
	return buf
}

func DecodeCombo(b []byte) (combo.Combo, error) {
	if len(b) < 1 {
		return combo.Combo{}, fmt.Errorf("%w: empty combo record", ErrMalformedRecord)
	}
	n := int(b[0])
	need := 1 + 2*n + 6 + 2 + 2
	if len(b) != need {
		return combo.Combo{}, fmt.Errorf("%w: combo needs %d bytes, got %d", ErrMalformedRecord, need, len(b))
	}
	pos := 1
	keys := make([]keycode.Position, n)
	for i := 0; i < n; i++ {
		keys[i] = keycode.Position{Row: b[pos], Col: b[pos+1]}
		pos += 2
	}
	output, err := DecodeAction(b[pos : pos+6])
	if err != nil {
		return combo.Combo{}, err
	}
	pos += 6
	var layer *uint8
	if b[pos] == 1 {
		l := b[pos+1]
		layer = &l
	}
	pos += 2
	timeout := binary.LittleEndian.Uint16(b[pos : pos+2])
	return combo.Combo{Keys: keys, Output: output, Layer: layer, TimeoutMs: timeout}, nil
}

// EncodeMorse writes Morse's variable-length wire form: the packed
// profile, the action count, and each (pattern, action) pair.
func EncodeMorse(m keycode.Morse) []byte {
	buf := make([]byte, 0, 4+1+len(m.Actions)*8)
	profile := make([]byte, 4)
	binary.LittleEndian.PutUint32(profile, m.Profile.Pack())
	buf = append(buf, profile...)
	buf = append(buf, byte(len(m.Actions)))
	for p, a := range m.Actions {
		pb := make([]byte, 2)
		binary.LittleEndian.PutUint16(pb, uint16(p))
		buf = append(buf, pb...)
		act := EncodeAction(a)
		buf = append(buf, act[:]...)
	}
	return buf
}

func DecodeMorse(b []byte) (keycode.Morse, error) {
	if len(b) < 5 {
		return keycode.Morse{}, fmt.Errorf("%w: morse record too short", ErrMalformedRecord)
	}
	profile := keycode.UnpackMorseProfile(binary.LittleEndian.Uint32(b[0:4]))
	n := int(b[4])
	need := 5 + n*8
	if len(b) != need {
		return keycode.Morse{}, fmt.Errorf("%w: morse needs %d bytes, got %d", ErrMalformedRecord, need, len(b))
	}
	m := keycode.NewMorse(profile)
	pos := 5
	for i := 0; i < n; i++ {
		pattern := keycode.MorsePattern(binary.LittleEndian.Uint16(b[pos : pos+2]))
		pos += 2
		a, err := DecodeAction(b[pos : pos+6])
		if err != nil {
			return keycode.Morse{}, err
		}
		pos += 6
		m.Actions[pattern] = a
	}
	return m, nil
}
