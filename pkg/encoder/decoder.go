// SPDX-License-Identifier: BSD-3-Clause

package encoder

// quadratureSteps is the classic full-step Gray-code transition table: index
// is (previous 2-bit AB state << 2) | current 2-bit AB state, where the
// 2-bit state packs A in the high bit and B in the low bit. Each entry is
// the directional micro-step that transition contributes; an invalid jump
// (a missed or bounced edge) contributes nothing. detentSteps consistent
// micro-steps in the same direction complete one physical detent click.
var quadratureSteps = [16]int{
	0, 1, -1, 0,
	-1, 0, 0, 1,
	1, 0, 0, -1,
	0, -1, 1, 0,
}

const detentSteps = 4

// Decoder accumulates quadrature transitions from a single rotary encoder's
// A/B phase lines into whole detents.
type Decoder struct {
	prev  uint8
	accum int
}

// NewDecoder returns a Decoder starting at the A=0,B=0 rest state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Update feeds a new (a, b) phase reading and returns the detent delta: +1
// for one clockwise click, -1 for counter-clockwise, or 0 if no full detent
// has completed yet.
func (d *Decoder) Update(a, b bool) int {
	curr := quadratureState(a, b)
	idx := (d.prev << 2) | curr
	d.prev = curr

	step := quadratureSteps[idx]
	if step == 0 {
		return 0
	}

	d.accum += step
	switch {
	case d.accum >= detentSteps:
		d.accum = 0
		return 1
	case d.accum <= -detentSteps:
		d.accum = 0
		return -1
	default:
		return 0
	}
}

func quadratureState(a, b bool) uint8 {
	var s uint8
	if a {
		s |= 0b10
	}
	if b {
		s |= 0b01
	}
	return s
}
