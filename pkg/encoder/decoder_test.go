// SPDX-License-Identifier: BSD-3-Clause

package encoder

import "testing"

// driveSequence feeds a list of (a, b) states into d in order, returning the
// sum of every returned delta.
func driveSequence(d *Decoder, states [][2]bool) int {
	total := 0
	for _, s := range states {
		total += d.Update(s[0], s[1])
	}
	return total
}

func TestDecoderClockwiseDetent(t *testing.T) {
	d := NewDecoder()
	// Gray-code clockwise sequence: 00 -> 01 -> 11 -> 10 -> 00.
	seq := [][2]bool{{false, true}, {true, true}, {true, false}, {false, false}}
	if got := driveSequence(d, seq); got != 1 {
		t.Fatalf("got delta %d, want 1 (one clockwise detent)", got)
	}
}

func TestDecoderCounterClockwiseDetent(t *testing.T) {
	d := NewDecoder()
	// Reverse of the clockwise sequence: 00 -> 10 -> 11 -> 01 -> 00.
	seq := [][2]bool{{true, false}, {true, true}, {false, true}, {false, false}}
	if got := driveSequence(d, seq); got != -1 {
		t.Fatalf("got delta %d, want -1 (one counter-clockwise detent)", got)
	}
}

func TestDecoderPartialRotationProducesNoTick(t *testing.T) {
	d := NewDecoder()
	seq := [][2]bool{{false, true}, {true, true}}
	if got := driveSequence(d, seq); got != 0 {
		t.Fatalf("got delta %d, want 0 (detent not completed)", got)
	}
}

func TestDecoderInvalidJumpIgnored(t *testing.T) {
	d := NewDecoder()
	// 00 -> 11 skips a state (a missed edge); it should not move the
	// accumulator at all.
	if got := d.Update(true, true); got != 0 {
		t.Fatalf("got delta %d for an invalid jump, want 0", got)
	}
}

func TestDecoderTwoFullDetents(t *testing.T) {
	d := NewDecoder()
	seq := [][2]bool{
		{false, true}, {true, true}, {true, false}, {false, false},
		{false, true}, {true, true}, {true, false}, {false, false},
	}
	if got := driveSequence(d, seq); got != 2 {
		t.Fatalf("got delta %d, want 2", got)
	}
}
