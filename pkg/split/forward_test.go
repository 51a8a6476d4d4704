// SPDX-License-Identifier: BSD-3-Clause

package split

import "testing"

type testForwardable struct {
	Value int `json:"value"`
}

func (testForwardable) SplitEventKind() uint16 { return 0xBEEF }

func TestEncodeDecodeUserPacketRoundTrip(t *testing.T) {
	want := testForwardable{Value: 42}
	p, err := EncodeUserPacket(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeUserPacket[testForwardable](p)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeUserPacketWrongKind(t *testing.T) {
	p := UserPacket{Kind: 0x1234, Len: 2, Data: [UserPacketDataSize]byte{'{', '}'}}
	if _, err := DecodeUserPacket[testForwardable](p); err == nil {
		t.Fatal("expected ErrUnknownUserKind")
	}
}

func TestMergedSubscriberPrefersLocal(t *testing.T) {
	local := make(chan testForwardable, 1)
	remote := make(chan testForwardable, 1)
	local <- testForwardable{Value: 1}
	remote <- testForwardable{Value: 2}

	m := NewMergedSubscriber[testForwardable](local, remote)
	got, err := m.Next(t.Context())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Value != 1 {
		t.Fatalf("expected local event to win, got %+v", got)
	}
}
