// SPDX-License-Identifier: BSD-3-Clause

package mouse

import (
	"sync"
	"time"

	"github.com/rmkfw/rmk/pkg/hidreport"
	"github.com/rmkfw/rmk/pkg/keycode"
)

// Reporter receives mouse HID reports.
type Reporter interface {
	Report(r hidreport.Report)
}

// diagonalScale is the 181/256 ≈ 1/√2 fixed-point compensation applied to
// each axis when both X and Y have a nonzero component, so a diagonal move
// isn't faster than an axis-aligned one.
const diagonalScale = 181

// Config tunes the acceleration curve and the three MouseAccel override
// speeds (fixed units/tick, highest precedence first).
type Config struct {
	Key            keycode.MouseKey
	AccelOverrides [3]uint16
}

// DefaultConfig returns RMK's common mouse-key tuning with three ascending
// fixed override speeds.
func DefaultConfig() Config {
	return Config{
		Key:            keycode.DefaultMouseKey(),
		AccelOverrides: [3]uint16{2, 10, 40},
	}
}

// Engine drives button state and the movement/wheel repeat loop,
// implementing action.MouseDriver.
type Engine struct {
	mu       sync.Mutex
	reporter Reporter
	cfg      Config

	held    map[keycode.KeyCode]bool
	buttons byte
	ticks   int

	stopTick chan struct{}
	running  bool
}

// New builds a mouse engine reporting through reporter.
func New(cfg Config, reporter Reporter) *Engine {
	return &Engine{cfg: cfg, reporter: reporter, held: make(map[keycode.KeyCode]bool)}
}

// Press marks kc held: button keys update and report immediately;
// movement/wheel/accel-override keys (re)start the repeat-tick loop.
func (e *Engine) Press(kc keycode.KeyCode, now uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.held[kc] = true

	if kc >= keycode.KCMouseBtn1 && kc <= keycode.KCMouseBtn5 {
		e.buttons |= buttonBit(kc)
		e.emitLocked(0, 0, 0, 0)
		return
	}

	if !e.running {
		e.running = true
		e.ticks = 0
		e.stopTick = make(chan struct{})
		go e.runLoop(e.stopTick)
	}
}

// Release clears kc; once no movement/wheel keys remain held, the repeat
// loop stops and a final zero-delta report settles the report state.
func (e *Engine) Release(kc keycode.KeyCode, now uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.held, kc)

	if kc >= keycode.KCMouseBtn1 && kc <= keycode.KCMouseBtn5 {
		e.buttons &^= buttonBit(kc)
		e.emitLocked(0, 0, 0, 0)
		return
	}

	if e.running && !e.anyMovementHeldLocked() {
		close(e.stopTick)
		e.running = false
		e.ticks = 0
		e.emitLocked(0, 0, 0, 0)
	}
}

func (e *Engine) anyMovementHeldLocked() bool {
	for kc, down := range e.held {
		if !down {
			continue
		}
		if kc >= keycode.KCMouseUp && kc <= keycode.KCMouseAccel2 {
			return true
		}
	}
	return false
}

func buttonBit(kc keycode.KeyCode) byte {
	return 1 << uint(kc-keycode.KCMouseBtn1)
}

func (e *Engine) runLoop(stop chan struct{}) {
	interval := time.Duration(e.cfg.Key.AccelInterval) * time.Millisecond
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			e.mu.Lock()
			if !e.running {
				e.mu.Unlock()
				return
			}
			e.ticks++
			e.emitTickLocked()
			e.mu.Unlock()
		}
	}
}

func (e *Engine) speedLocked() int {
	for i, ov := range []keycode.KeyCode{keycode.KCMouseAccel0, keycode.KCMouseAccel1, keycode.KCMouseAccel2} {
		if e.held[ov] {
			return int(e.cfg.AccelOverrides[i])
		}
	}
	totalTicks := int(e.cfg.Key.TimeToMaxMs) / max(int(e.cfg.Key.AccelInterval), 1)
	if totalTicks <= 0 {
		totalTicks = 1
	}
	n := e.ticks
	if n > totalTicks {
		n = totalTicks
	}
	initial, maxS := int(e.cfg.Key.InitialSpeed), int(e.cfg.Key.MaxSpeed)
	return initial + (maxS-initial)*n/totalTicks
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (e *Engine) emitTickLocked() {
	speed := e.speedLocked()
	var dx, dy, wheel, pan int

	if e.held[keycode.KCMouseUp] {
		dy -= speed
	}
	if e.held[keycode.KCMouseDown] {
		dy += speed
	}
	if e.held[keycode.KCMouseLeft] {
		dx -= speed
	}
	if e.held[keycode.KCMouseRight] {
		dx += speed
	}
	if e.held[keycode.KCMouseWheelUp] {
		wheel += speed
	}
	if e.held[keycode.KCMouseWheelDown] {
		wheel -= speed
	}
	if e.held[keycode.KCMousePanLeft] {
		pan -= speed
	}
	if e.held[keycode.KCMousePanRight] {
		pan += speed
	}

	if dx != 0 && dy != 0 {
		dx = dx * diagonalScale / 256
		dy = dy * diagonalScale / 256
	}

	e.emitLocked(dx, dy, wheel, pan)
}

func (e *Engine) emitLocked(dx, dy, wheel, pan int) {
	e.reporter.Report(hidreport.NewMouseReport(hidreport.MouseReport{
		Buttons: e.buttons,
		X:       int8(clamp(dx)),
		Y:       int8(clamp(dy)),
		Wheel:   int8(clamp(wheel)),
		Pan:     int8(clamp(pan)),
	}))
}

func clamp(v int) int {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return v
}
