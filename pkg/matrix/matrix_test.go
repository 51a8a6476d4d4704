// SPDX-License-Identifier: BSD-3-Clause

package matrix

import (
	"context"
	"testing"
	"time"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// fakeOutput records every value it's set to; fakeInput returns whatever
// the test currently wants it to read.
type fakeOutput struct{ values []int }

func (f *fakeOutput) SetValue(v int) error {
	f.values = append(f.values, v)
	return nil
}

type fakeInput struct{ high bool }

func (f *fakeInput) Value() (int, error) {
	if f.high {
		return 1, nil
	}
	return 0, nil
}

func TestScanOnceNoChangeNoEvents(t *testing.T) {
	outs := []OutputLine{&fakeOutput{}}
	ins := []InputLine{&fakeInput{}}
	m := New(outs, ins, NewCountingDebouncer(1, 1, 2), Config{Col2Row: true})

	events, err := m.ScanOnce()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0", len(events))
	}
}

func TestScanOncePressRequiresThreshold(t *testing.T) {
	in := &fakeInput{}
	outs := []OutputLine{&fakeOutput{}}
	ins := []InputLine{in}
	m := New(outs, ins, NewCountingDebouncer(1, 1, 3), Config{Col2Row: true})

	in.high = true
	for i := 0; i < 2; i++ {
		events, err := m.ScanOnce()
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 0 {
			t.Fatalf("scan %d: got %d events before threshold, want 0", i, len(events))
		}
	}

	events, err := m.ScanOnce()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || !events[0].Pressed {
		t.Fatalf("got %+v, want one press event", events)
	}
}

func TestScanOnceBounceDoesNotFlip(t *testing.T) {
	in := &fakeInput{}
	outs := []OutputLine{&fakeOutput{}}
	ins := []InputLine{in}
	m := New(outs, ins, NewCountingDebouncer(1, 1, 3), Config{Col2Row: true})

	in.high = true
	if _, err := m.ScanOnce(); err != nil {
		t.Fatal(err)
	}
	// Bounce back to the rest state before the threshold is reached: the
	// counter resets and no event should ever fire for this bounce.
	in.high = false
	if events, err := m.ScanOnce(); err != nil || len(events) != 0 {
		t.Fatalf("got events=%v err=%v, want no event on bounce", events, err)
	}
}

func TestScanOncePositionRespectsCol2Row(t *testing.T) {
	outs := []OutputLine{&fakeOutput{}, &fakeOutput{}}
	in := &fakeInput{high: true}
	ins := []InputLine{in}

	m := New(outs, ins, NewCountingDebouncer(2, 1, 1), Config{Col2Row: true})
	events, err := m.ScanOnce()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Pos != (keycode.Position{Row: 0, Col: 0}) || events[1].Pos != (keycode.Position{Row: 0, Col: 1}) {
		t.Fatalf("got %+v, want (0,0) then (0,1) (output idx becomes column under Col2Row)", events)
	}

	m2 := New(outs, ins, NewCountingDebouncer(2, 1, 1), Config{Col2Row: false})
	events2, err := m2.ScanOnce()
	if err != nil {
		t.Fatal(err)
	}
	if len(events2) != 2 || events2[0].Pos != (keycode.Position{Row: 0, Col: 0}) || events2[1].Pos != (keycode.Position{Row: 1, Col: 0}) {
		t.Fatalf("got %+v, want (0,0) then (1,0)", events2)
	}
}

func TestMatrixRunStopsOnCancel(t *testing.T) {
	outs := []OutputLine{&fakeOutput{}}
	ins := []InputLine{&fakeInput{}}
	m := New(outs, ins, NewCountingDebouncer(1, 1, 1), Config{Col2Row: true, ScanInterval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, func(ev keycode.KeyEvent) {}) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("got err %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRowsCols(t *testing.T) {
	outs := make([]OutputLine, 4)
	for i := range outs {
		outs[i] = &fakeOutput{}
	}
	ins := make([]InputLine, 6)
	for i := range ins {
		ins[i] = &fakeInput{}
	}
	m := New(outs, ins, NewCountingDebouncer(4, 6, 1), Config{Col2Row: true})
	if m.Rows() != 6 || m.Cols() != 4 {
		t.Fatalf("got rows=%d cols=%d, want rows=6 cols=4", m.Rows(), m.Cols())
	}
}
