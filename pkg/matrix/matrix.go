// SPDX-License-Identifier: BSD-3-Clause

package matrix

import (
	"context"
	"time"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// OutputLine is the strobe side of a matrix, driven high then low once per
// scan pass. *gpio.Line satisfies this without an explicit import.
type OutputLine interface {
	SetValue(value int) error
}

// InputLine is the sampled side of a matrix.
type InputLine interface {
	Value() (int, error)
}

// Config controls scan timing and pin-role layout.
type Config struct {
	// Col2Row is true when the output (strobed) lines are columns and the
	// input (sampled) lines are rows; false for the row-strobes-column
	// layout.
	Col2Row bool
	// ScanInterval is how often a full strobe pass runs.
	ScanInterval time.Duration
	// SettleDelay is how long to wait after driving a strobe line high
	// before sampling, covering the RC/diode settle time of the board.
	SettleDelay time.Duration
}

// DefaultConfig returns scan timing suited to a host-side poll loop: a 1ms
// pass interval with a short settle delay, slower than the microsecond
// strobe timing a bare-metal scan loop can afford but well inside the
// latency budget a HID report cadence needs.
func DefaultConfig() Config {
	return Config{Col2Row: true, ScanInterval: time.Millisecond, SettleDelay: 50 * time.Microsecond}
}

// Matrix scans a physical key matrix and reports debounced transitions as
// keycode.KeyEvent values, the same type a split peripheral link or a
// synthetic test source produces.
type Matrix struct {
	outputs   []OutputLine
	inputs    []InputLine
	debouncer Debouncer
	cfg       Config
	pressed   [][]bool // [output idx][input idx]
	start     time.Time
}

// New builds a Matrix. outputs are the strobed lines, inputs the sampled
// lines; cfg.Col2Row decides which dimension maps to row vs column in the
// KeyEvents it produces.
func New(outputs []OutputLine, inputs []InputLine, debouncer Debouncer, cfg Config) *Matrix {
	pressed := make([][]bool, len(outputs))
	for i := range pressed {
		pressed[i] = make([]bool, len(inputs))
	}
	return &Matrix{outputs: outputs, inputs: inputs, debouncer: debouncer, cfg: cfg, pressed: pressed, start: time.Now()}
}

// Rows reports the matrix row count, after applying the Col2Row pin-role swap.
func (m *Matrix) Rows() int {
	if m.cfg.Col2Row {
		return len(m.inputs)
	}
	return len(m.outputs)
}

// Cols reports the matrix column count, after applying the Col2Row pin-role swap.
func (m *Matrix) Cols() int {
	if m.cfg.Col2Row {
		return len(m.outputs)
	}
	return len(m.inputs)
}

// ScanOnce strobes every output line once, sampling all inputs, and returns
// every debounced transition found during the pass. A line I/O error aborts
// the rest of the pass, still returning whatever transitions were already
// found.
func (m *Matrix) ScanOnce() ([]keycode.KeyEvent, error) {
	var events []keycode.KeyEvent
	for outIdx, out := range m.outputs {
		if err := out.SetValue(1); err != nil {
			return events, err
		}
		if m.cfg.SettleDelay > 0 {
			time.Sleep(m.cfg.SettleDelay)
		}
		for inIdx, in := range m.inputs {
			raw, err := in.Value()
			if err != nil {
				_ = out.SetValue(0)
				return events, err
			}
			rawHigh := raw != 0
			if m.debouncer.Detect(uint8(outIdx), uint8(inIdx), rawHigh, m.pressed[outIdx][inIdx]) {
				m.pressed[outIdx][inIdx] = !m.pressed[outIdx][inIdx]
				events = append(events, keycode.KeyEvent{
					Pos:       m.position(outIdx, inIdx),
					Pressed:   m.pressed[outIdx][inIdx],
					Timestamp: uint32(time.Since(m.start).Milliseconds()),
				})
			}
		}
		if err := out.SetValue(0); err != nil {
			return events, err
		}
	}
	return events, nil
}

func (m *Matrix) position(outIdx, inIdx int) keycode.Position {
	if m.cfg.Col2Row {
		return keycode.Position{Row: uint8(inIdx), Col: uint8(outIdx)}
	}
	return keycode.Position{Row: uint8(outIdx), Col: uint8(inIdx)}
}

// Run scans on cfg.ScanInterval until ctx is canceled, calling emit for
// every debounced transition in arrival order. A scan I/O error is
// returned immediately after delivering any events the failing pass already
// found; the caller decides whether to retry.
func (m *Matrix) Run(ctx context.Context, emit func(keycode.KeyEvent)) error {
	interval := m.cfg.ScanInterval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			events, err := m.ScanOnce()
			for _, ev := range events {
				emit(ev)
			}
			if err != nil {
				return err
			}
		}
	}
}
