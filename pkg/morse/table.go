// SPDX-License-Identifier: BSD-3-Clause

package morse

import (
	"sync"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// Table is the concrete, mutable store behind TableProvider: a fixed number
// of keycode.Morse slots indexed by KAMorse.MorseIndex. One Table serves an
// entire keyboard; a host-protocol service edits it live, the Resolver only
// ever reads it.
type Table struct {
	mu     sync.RWMutex
	morses []keycode.Morse
}

// NewTable builds a table with n empty slots, each defaulting to
// keycode.DefaultMorseProfile with no pattern bound.
func NewTable(n int) *Table {
	t := &Table{morses: make([]keycode.Morse, n)}
	for i := range t.morses {
		t.morses[i] = keycode.NewMorse(keycode.DefaultMorseProfile())
	}
	return t
}

// GetMorse implements morse.TableProvider.
func (t *Table) GetMorse(idx uint8) keycode.Morse {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(idx) >= len(t.morses) {
		return keycode.Morse{}
	}
	return t.morses[idx]
}

// Count reports the number of configured morse slots.
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.morses)
}

// Set overwrites the morse table at idx, used by live keymap-editing
// protocols. ok is false if idx is out of range.
func (t *Table) Set(idx int, m keycode.Morse) (ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.morses) {
		return false
	}
	t.morses[idx] = m
	return true
}
