// SPDX-License-Identifier: BSD-3-Clause

package encoder

// Line is the minimal GPIO contract a Reader needs: digital value sampling.
// *gpio.Line satisfies this without an explicit import.
type Line interface {
	Value() (int, error)
}

// Reader samples a single rotary encoder's A/B phase lines and turns
// completed detents into ticks.
type Reader struct {
	a, b    Line
	decoder *Decoder
}

// NewReader builds a Reader over the given phase lines.
func NewReader(a, b Line) *Reader {
	return &Reader{a: a, b: b, decoder: NewDecoder()}
}

// Poll samples both phase lines once and returns the resulting detent delta
// (+1 clockwise, -1 counter-clockwise, 0 no completed detent).
func (r *Reader) Poll() (int, error) {
	av, err := r.a.Value()
	if err != nil {
		return 0, err
	}
	bv, err := r.b.Value()
	if err != nil {
		return 0, err
	}
	return r.decoder.Update(av != 0, bv != 0), nil
}
