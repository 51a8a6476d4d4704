// SPDX-License-Identifier: BSD-3-Clause

package storage

import (
	"testing"

	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/keycode"
)

func TestKeyActionRoundTrip(t *testing.T) {
	want := keycode.KATapHold(
		keycode.Action{Kind: keycode.ActionKey, Code: keycode.KCA},
		keycode.Action{Kind: keycode.ActionLayerOn, Layer: 2},
		keycode.DefaultMorseProfile(),
	)
	got, err := DecodeKeyAction(EncodeKeyAction(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEncoderActionRoundTrip(t *testing.T) {
	want := keycode.EncoderAction{
		Clockwise:        keycode.KASingle(keycode.Action{Kind: keycode.ActionKey, Code: keycode.KCA}),
		CounterClockwise: keycode.KASingle(keycode.Action{Kind: keycode.ActionKey, Code: keycode.KCB}),
	}
	got, err := DecodeEncoderAction(EncodeEncoderAction(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestForkRoundTrip(t *testing.T) {
	want := fork.Fork{Trigger: keycode.KC1, CondMods: keycode.ModShift, ReplaceIf: keycode.KCF1}
	got, err := DecodeFork(EncodeFork(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestComboRoundTrip(t *testing.T) {
	layer := uint8(1)
	want := combo.Combo{
		Keys:      []keycode.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		Output:    keycode.Action{Kind: keycode.ActionKey, Code: keycode.KCEscape},
		Layer:     &layer,
		TimeoutMs: 50,
	}
	got, err := DecodeCombo(EncodeCombo(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Keys) != len(want.Keys) || got.Output != want.Output || *got.Layer != *want.Layer || got.TimeoutMs != want.TimeoutMs {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestComboRoundTripNoLayer(t *testing.T) {
	want := combo.Combo{
		Keys:      []keycode.Position{{Row: 1, Col: 1}},
		Output:    keycode.Action{Kind: keycode.ActionKey, Code: keycode.KCA},
		TimeoutMs: 30,
	}
	got, err := DecodeCombo(EncodeCombo(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Layer != nil {
		t.Fatalf("expected nil layer, got %v", got.Layer)
	}
}

func TestMorseRoundTrip(t *testing.T) {
	want := keycode.NewMorse(keycode.DefaultMorseProfile())
	want.Actions[keycode.NewMorsePattern().Append(keycode.SymbolTap)] = keycode.Action{Kind: keycode.ActionKey, Code: keycode.KCA}
	want.Actions[keycode.NewMorsePattern().Append(keycode.SymbolHold)] = keycode.Action{Kind: keycode.ActionLayerOn, Layer: 1}

	got, err := DecodeMorse(EncodeMorse(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Profile != want.Profile || len(got.Actions) != len(want.Actions) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for p, a := range want.Actions {
		if got.Actions[p] != a {
			t.Fatalf("pattern %v: got %+v, want %+v", p, got.Actions[p], a)
		}
	}
}
