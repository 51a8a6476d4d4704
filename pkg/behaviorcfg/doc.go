// SPDX-License-Identifier: BSD-3-Clause

// Package behaviorcfg parses a keyboard.toml board description (matrix
// pins, layers, default keymap, tap-hold/combo/fork/morse behavior,
// storage and battery settings) into validated runtime types: a populated
// keymap.KeyMap, combo/fork tables, and a morse table. Validation happens
// once at Load; nothing downstream re-checks bounds that Load already
// guaranteed.
package behaviorcfg
