// SPDX-License-Identifier: BSD-3-Clause

package split

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes f with a stable, little-endian, fixed-width codec
// sized for an embedded wire link: a leading kind byte, then the variant's
// fields packed tightly (bools as one byte, uint16s as two little-endian
// bytes; no field is varint-encoded). This is
// a hand-rolled codec rather than a schema'd RPC format — see DESIGN.md's
// "justified stdlib usage" entry for why no pack library in the corpus fits
// an 8-bit-length UART frame.
func Encode(f Frame) ([]byte, error) {
	buf := make([]byte, 0, 8)
	buf = append(buf, byte(f.Kind))

	switch f.Kind {
	case MessageKey:
		buf = append(buf, f.Key.Row, f.Key.Col, boolByte(f.Key.Pressed))
	case MessageConnectionState:
		buf = append(buf, boolByte(f.ConnectionState))
	case MessageLayerUpdate:
		buf = append(buf, f.Layer)
	case MessageLedIndicator:
		buf = append(buf, f.LedIndicator)
	case MessageBatteryLevel:
		buf = append(buf, f.BatteryLevel)
	case MessageResetPeripheral:
		// no payload
	case MessageUser:
		if f.User.Len > UserPacketDataSize {
			return nil, fmt.Errorf("%w: user payload len %d", ErrFrameTooLarge, f.User.Len)
		}
		var kindBuf [2]byte
		binary.LittleEndian.PutUint16(kindBuf[:], f.User.Kind)
		buf = append(buf, kindBuf[0], kindBuf[1], f.User.Len)
		buf = append(buf, f.User.Data[:f.User.Len]...)
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrMalformedFrame, f.Kind)
	}

	if len(buf) > SplitMessageMaxSize {
		return nil, ErrFrameTooLarge
	}
	return buf, nil
}

// Decode parses a frame produced by Encode. A truncated or out-of-range
// buffer returns ErrMalformedFrame and never a partially-populated Frame
// with defined meaning — callers must drop the frame wholesale.
func Decode(buf []byte) (Frame, error) {
	if len(buf) == 0 {
		return Frame{}, ErrMalformedFrame
	}
	kind := MessageKind(buf[0])
	rest := buf[1:]

	switch kind {
	case MessageKey:
		if len(rest) < 3 {
			return Frame{}, ErrMalformedFrame
		}
		return NewKeyFrame(rest[0], rest[1], rest[2] != 0), nil
	case MessageConnectionState:
		if len(rest) < 1 {
			return Frame{}, ErrMalformedFrame
		}
		return NewConnectionStateFrame(rest[0] != 0), nil
	case MessageLayerUpdate:
		if len(rest) < 1 {
			return Frame{}, ErrMalformedFrame
		}
		return NewLayerUpdateFrame(rest[0]), nil
	case MessageLedIndicator:
		if len(rest) < 1 {
			return Frame{}, ErrMalformedFrame
		}
		return NewLedIndicatorFrame(rest[0]), nil
	case MessageBatteryLevel:
		if len(rest) < 1 {
			return Frame{}, ErrMalformedFrame
		}
		return NewBatteryLevelFrame(rest[0]), nil
	case MessageResetPeripheral:
		return NewResetPeripheralFrame(), nil
	case MessageUser:
		if len(rest) < 3 {
			return Frame{}, ErrMalformedFrame
		}
		k := binary.LittleEndian.Uint16(rest[0:2])
		n := rest[2]
		if int(n) > UserPacketDataSize || len(rest) < 3+int(n) {
			return Frame{}, ErrMalformedFrame
		}
		var p UserPacket
		p.Kind = k
		p.Len = n
		copy(p.Data[:n], rest[3:3+int(n)])
		return NewUserFrame(p), nil
	default:
		return Frame{}, ErrMalformedFrame
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
