// SPDX-License-Identifier: BSD-3-Clause

package fork

import (
	"sync"

	"github.com/rmkfw/rmk/pkg/keycode"
)

// Fork rewrites Trigger to ReplaceIf's keycode whenever CondMods is
// non-empty and at least one of its modifiers is held; otherwise Trigger
// passes through unchanged. Evaluated at press time only — the release
// path always matches whichever keycode was actually pressed, so a fork
// can never "flip" mid-hold.
type Fork struct {
	Trigger   keycode.KeyCode
	CondMods  keycode.ModifierCombination
	ReplaceIf keycode.KeyCode
}

// Engine holds the configured forks and rewrites trigger keycodes on
// press, implementing action.Forker. Safe for concurrent reads from the
// key-processing goroutine while a host-protocol service edits slots.
type Engine struct {
	mu    sync.RWMutex
	forks []Fork
}

// New builds a fork engine from a static fork list (behaviorcfg-loaded).
func New(forks []Fork) *Engine {
	return &Engine{forks: append([]Fork(nil), forks...)}
}

// Rewrite returns the keycode that should actually be pressed for trigger
// given mods, per the first matching fork (first match wins; forks on the
// same trigger should be ordered most-specific-first by the caller).
func (e *Engine) Rewrite(trigger keycode.KeyCode, mods keycode.ModifierCombination) keycode.KeyCode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, f := range e.forks {
		if f.Trigger != trigger {
			continue
		}
		if f.CondMods != 0 && mods.HasAny(f.CondMods) {
			return f.ReplaceIf
		}
	}
	return trigger
}

// Count reports the number of configured fork slots.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.forks)
}

// Get returns the fork at idx. ok is false if idx is out of range.
func (e *Engine) Get(idx int) (f Fork, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if idx < 0 || idx >= len(e.forks) {
		return Fork{}, false
	}
	return e.forks[idx], true
}

// Set overwrites the fork at idx, used by live keymap-editing protocols.
func (e *Engine) Set(idx int, f Fork) (ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx < 0 || idx >= len(e.forks) {
		return false
	}
	e.forks[idx] = f
	return true
}
