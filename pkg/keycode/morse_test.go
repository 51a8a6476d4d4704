// SPDX-License-Identifier: BSD-3-Clause

package keycode

import "testing"

func TestMorsePatternAppend(t *testing.T) {
	p := NewMorsePattern()
	if !p.IsEmpty() || p.Len() != 0 {
		t.Fatalf("new pattern should be empty, got %v len=%d", p, p.Len())
	}

	p = p.Append(SymbolTap)
	if p.Len() != 1 || p.At(0) != SymbolTap {
		t.Fatalf("expected [Tap], got %s", p)
	}

	p = p.Append(SymbolHold)
	if p.Len() != 2 {
		t.Fatalf("expected length 2, got %d (%s)", p.Len(), p)
	}
	if p.At(0) != SymbolTap || p.At(1) != SymbolHold {
		t.Fatalf("expected [Tap,Hold], got %s", p)
	}
	if p.String() != "T.H" {
		t.Fatalf("expected T.H, got %s", p.String())
	}
}

func TestMorsePatternDistinctFromLength(t *testing.T) {
	single := NewMorsePattern().Append(SymbolTap)
	double := NewMorsePattern().Append(SymbolTap).Append(SymbolTap)
	if single == double {
		t.Fatalf("patterns of different length must not collide: %v vs %v", single, double)
	}
}

func TestMorsePredictFinalUniqueCompletion(t *testing.T) {
	m := NewMorse(DefaultMorseProfile())
	tapPattern := NewMorsePattern().Append(SymbolTap)
	holdPattern := NewMorsePattern().Append(SymbolHold)
	m.Actions[tapPattern] = Key(KCA)
	m.Actions[holdPattern] = Modifier(ModLeftShift)

	empty := NewMorsePattern()
	if _, ok := m.PredictFinal(empty); ok {
		t.Fatalf("two live branches from empty prefix should not predict")
	}

	a, ok := m.PredictFinal(tapPattern)
	if !ok || a.Kind != ActionKey || a.Code != KCA {
		t.Fatalf("expected unique prediction Key(A) for completed tap pattern, got %+v ok=%v", a, ok)
	}
}

func TestMorseHasExtension(t *testing.T) {
	m := NewMorse(DefaultMorseProfile())
	tapTap := NewMorsePattern().Append(SymbolTap).Append(SymbolTap)
	m.Actions[tapTap] = Key(KCZ)

	single := NewMorsePattern().Append(SymbolTap)
	if !m.HasExtension(single) {
		t.Fatalf("single tap should have an extension (tap,tap) present")
	}
	if m.HasExtension(tapTap) {
		t.Fatalf("tap,tap is maximal, should have no extension")
	}
}

func TestModifierCombine(t *testing.T) {
	m := ModLeftCtrl.Combine(ModLeftShift)
	if !m.Has(ModLeftCtrl) || !m.Has(ModLeftShift) {
		t.Fatalf("combined modifiers missing expected bits: %v", m)
	}
	if m.Has(ModLeftAlt) {
		t.Fatalf("unexpected bit set: %v", m)
	}
}

func TestMorseProfilePackRoundTrip(t *testing.T) {
	p := MorseProfile{HoldTimeoutMs: 250, GapTimeoutMs: 180, UnilateralTap: OptTrue, Mode: MorseModePermissiveHold}
	got := UnpackMorseProfile(p.Pack())
	if got != p {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, p)
	}
}
