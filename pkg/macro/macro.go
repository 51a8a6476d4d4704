// SPDX-License-Identifier: BSD-3-Clause

package macro

import (
	"context"
	"time"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// KeyDriver is the minimal surface a macro needs from the keyboard engine:
// tap/press/release by keycode, with no matrix position of its own.
type KeyDriver interface {
	PressKeycode(kc keycode.KeyCode)
	ReleaseKeycode(kc keycode.KeyCode)
}

const (
	opExtended  byte = 0x01
	opTap       byte = 0x01
	opPress     byte = 0x02
	opRelease   byte = 0x03
	opDelay     byte = 0x04
)

// asciiTable maps a printable ASCII byte to its keycode and whether Shift
// is required. Only the common subset is enumerated; anything absent taps
// nothing (a no-op byte), matching the unshifted fallback of a minimal
// keymap.
var asciiTable = buildASCIITable()

func buildASCIITable() map[byte]struct {
	kc      keycode.KeyCode
	shifted bool
} {
	type entry = struct {
		kc      keycode.KeyCode
		shifted bool
	}
	t := make(map[byte]entry, 96)
	for c := byte('a'); c <= 'z'; c++ {
		t[c] = entry{keycode.KCA + keycode.KeyCode(c-'a'), false}
		t[c-'a'+'A'] = entry{keycode.KCA + keycode.KeyCode(c-'a'), true}
	}
	digits := []keycode.KeyCode{keycode.KC1, keycode.KC2, keycode.KC3, keycode.KC4, keycode.KC5, keycode.KC6, keycode.KC7, keycode.KC8, keycode.KC9, keycode.KC0}
	for i, kc := range digits {
		t['1'+byte(i)] = entry{kc, false}
	}
	t[' '] = entry{keycode.KCSpace, false}
	t['\n'] = entry{keycode.KCEnter, false}
	t['\t'] = entry{keycode.KCTab, false}
	t['-'] = entry{keycode.KCMinus, false}
	t['='] = entry{keycode.KCEqual, false}
	return t
}

// Table holds every macro's bytecode, keyed by macro index.
type Table struct {
	Blobs map[uint8][]byte // macro index -> bytecode
}

// Engine dispatches TriggerMacro actions by running each macro's bytecode
// on its own goroutine, implementing action.MacroRunner.
type Engine struct {
	table  Table
	driver KeyDriver
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a macro engine over a static bytecode table. ctx bounds every
// spawned macro goroutine's lifetime (cancel on keyboard shutdown).
func New(ctx context.Context, table Table, driver KeyDriver) *Engine {
	ctx, cancel := context.WithCancel(ctx)
	return &Engine{table: table, driver: driver, ctx: ctx, cancel: cancel}
}

// Close cancels every in-flight macro.
func (e *Engine) Close() { e.cancel() }

// Trigger starts macro idx asynchronously; delays inside it suspend only
// that macro's goroutine.
func (e *Engine) Trigger(idx uint8) {
	blob, ok := e.table.Blobs[idx]
	if !ok {
		return
	}
	go e.run(blob)
}

func (e *Engine) run(blob []byte) {
	i := 0
	for i < len(blob) {
		select {
		case <-e.ctx.Done():
			return
		default:
		}

		b := blob[i]
		switch b {
		case 0x00:
			return

		case opExtended:
			if i+2 >= len(blob) {
				return
			}
			sub := blob[i+1]
			switch sub {
			case opTap:
				kc := keycode.KeyCode(blob[i+2])
				e.driver.PressKeycode(kc)
				e.driver.ReleaseKeycode(kc)
				i += 3
			case opPress:
				e.driver.PressKeycode(keycode.KeyCode(blob[i+2]))
				i += 3
			case opRelease:
				e.driver.ReleaseKeycode(keycode.KeyCode(blob[i+2]))
				i += 3
			case opDelay:
				if i+3 >= len(blob) {
					return
				}
				lo, hi := blob[i+2], blob[i+3]
				ms := int(lo-1) + int(hi-1)*255
				i += 4
				if ms > 0 {
					t := time.NewTimer(time.Duration(ms) * time.Millisecond)
					select {
					case <-t.C:
					case <-e.ctx.Done():
						t.Stop()
						return
					}
				}
			default:
				i++
			}

		default:
			e.expandASCII(b)
			i++
		}
	}
}

func (e *Engine) expandASCII(b byte) {
	ent, ok := asciiTable[b]
	if !ok {
		return
	}
	if ent.shifted {
		e.driver.PressKeycode(keycode.KCLeftShift)
	}
	e.driver.PressKeycode(ent.kc)
	e.driver.ReleaseKeycode(ent.kc)
	if ent.shifted {
		e.driver.ReleaseKeycode(keycode.KCLeftShift)
	}
}
