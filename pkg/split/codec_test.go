// SPDX-License-Identifier: BSD-3-Clause

package split

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Frame{
		NewKeyFrame(3, 5, true),
		NewKeyFrame(0, 0, false),
		NewConnectionStateFrame(true),
		NewLayerUpdateFrame(7),
		NewLedIndicatorFrame(0x05),
		NewBatteryLevelFrame(88),
		NewResetPeripheralFrame(),
		NewUserFrame(UserPacket{Kind: 42, Len: 3, Data: [UserPacketDataSize]byte{1, 2, 3}}),
	}

	for _, f := range cases {
		buf, err := Encode(f)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", f, err)
		}
		got, err := Decode(buf)
		if err != nil {
			t.Fatalf("Decode(%x): %v", buf, err)
		}
		if got != f {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, f)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := [][]byte{
		{},
		{byte(MessageKey), 1},
		{byte(MessageUser), 0, 0, 200},
	}
	for _, buf := range cases {
		if _, err := Decode(buf); err == nil {
			t.Fatalf("Decode(%x): expected error", buf)
		}
	}
}

func TestEncodeUserPayloadTooLarge(t *testing.T) {
	f := NewUserFrame(UserPacket{Kind: 1, Len: UserPacketDataSize + 1})
	if _, err := Encode(f); err == nil {
		t.Fatal("expected ErrFrameTooLarge")
	}
}
