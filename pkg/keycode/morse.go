// SPDX-License-Identifier: BSD-3-Clause

package keycode

import "fmt"

// MorseMode selects the interaction policy between a held morse key and a
// subsequently pressed non-morse key.
type MorseMode uint8

const (
	// MorseModeDefault means "inherit the engine-wide default", distinct
	// from explicitly selecting MorseModeNormal.
	MorseModeDefault MorseMode = iota
	MorseModeNormal
	MorseModePermissiveHold
	MorseModeHoldOnOtherPress
)

// MorseProfile is a packed configuration for one morse/tap-hold key:
// hold timeout, gap (inter-tap) timeout, an optional unilateral-tap
// override, and an optional mode override. Zero timeouts are invalid once a
// profile is in use; DefaultMorseProfile returns sane defaults.
type MorseProfile struct {
	HoldTimeoutMs   uint16 // 14 significant bits in the wire encoding.
	GapTimeoutMs    uint16 // 14 significant bits in the wire encoding.
	UnilateralTap   OptBool
	Mode            MorseMode
}

// OptBool is a tri-state boolean: unset, false, or true — modeling the
// an optional boolean field of MorseProfile without an interface box.
type OptBool uint8

const (
	OptUnset OptBool = iota
	OptFalse
	OptTrue
)

// Bool returns the boolean value and whether it was set.
func (o OptBool) Bool() (value, ok bool) {
	switch o {
	case OptTrue:
		return true, true
	case OptFalse:
		return false, true
	default:
		return false, false
	}
}

// DefaultMorseProfile returns RMK's common tap-hold defaults: 250ms hold
// timeout, 200ms gap timeout, no overrides.
func DefaultMorseProfile() MorseProfile {
	return MorseProfile{HoldTimeoutMs: 250, GapTimeoutMs: 200}
}

// Pack encodes the profile into the 32-bit wire representation used by
// storage and VIA: 14 bits hold timeout, 14 bits gap timeout, 2 bits
// unilateral-tap, 2 bits mode.
func (p MorseProfile) Pack() uint32 {
	return uint32(p.HoldTimeoutMs&0x3FFF) |
		uint32(p.GapTimeoutMs&0x3FFF)<<14 |
		uint32(p.UnilateralTap&0x3)<<28 |
		uint32(p.Mode&0x3)<<30
}

// UnpackMorseProfile decodes the 32-bit wire representation produced by
// Pack.
func UnpackMorseProfile(v uint32) MorseProfile {
	return MorseProfile{
		HoldTimeoutMs: uint16(v & 0x3FFF),
		GapTimeoutMs:  uint16((v >> 14) & 0x3FFF),
		UnilateralTap: OptBool((v >> 28) & 0x3),
		Mode:          MorseMode((v >> 30) & 0x3),
	}
}

// MorseSymbol is one element of a MorsePattern: a tap or a hold.
type MorseSymbol uint8

const (
	SymbolTap MorseSymbol = iota
	SymbolHold
)

// MorsePattern is a bit-encoded sequence of tap/hold symbols with a leading
// sentinel bit so that e.g. "tap" and "tap,tap" encode to different
// integers despite both starting with a 0 symbol bit. Bit layout, from the
// LSB: one bit per symbol (0=tap, 1=hold), oldest symbol in bit 0, then the
// sentinel 1 bit directly above the most recently appended symbol. An empty pattern (the
// sentinel alone, value 1) is illegal as a stored table key but is the
// valid starting point before any symbol is appended.
type MorsePattern uint16

// emptyPattern is the sentinel-only pattern: no symbols yet.
const emptyPattern MorsePattern = 1

// NewMorsePattern returns the empty pattern (sentinel only, no symbols).
func NewMorsePattern() MorsePattern { return emptyPattern }

// Append returns the pattern with sym appended as the newest symbol.
func (p MorsePattern) Append(sym MorseSymbol) MorsePattern {
	bit := MorsePattern(0)
	if sym == SymbolHold {
		bit = 1
	}
	// Find the sentinel's current bit position (highest set bit) and place
	// the new symbol above it, then move the sentinel up.
	width := p.length()
	return (p &^ (1 << width)) | (bit << width) | (1 << (width + 1))
}

// length returns the number of symbols currently encoded (the sentinel's
// bit index).
func (p MorsePattern) length() uint {
	n := uint(0)
	v := uint16(p)
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

// Len returns the number of tap/hold symbols in the pattern.
func (p MorsePattern) Len() uint { return p.length() }

// IsEmpty reports whether no symbol has been appended yet.
func (p MorsePattern) IsEmpty() bool { return p == emptyPattern }

// At returns the i-th symbol (0-indexed, oldest first). Symbols are stored
// oldest-to-newest from bit 0 upward, with the sentinel bit above the
// newest symbol.
func (p MorsePattern) At(i uint) MorseSymbol {
	n := p.length()
	if i >= n {
		return SymbolTap
	}
	if (uint16(p)>>i)&1 == 1 {
		return SymbolHold
	}
	return SymbolTap
}

// String renders the pattern as e.g. "T.H" (tap then hold).
func (p MorsePattern) String() string {
	n := p.length()
	out := ""
	for i := uint(0); i < n; i++ {
		if i > 0 {
			out += "."
		}
		if p.At(i) == SymbolHold {
			out += "H"
		} else {
			out += "T"
		}
	}
	if out == "" {
		return "<empty>"
	}
	return out
}

// GoString supports %#v debug dumps with the same compact rendering.
func (p MorsePattern) GoString() string { return fmt.Sprintf("MorsePattern(%s)", p.String()) }

// Morse is a full multi-tap table: a profile governing timeouts/mode and a
// mapping from every reachable pattern to the Action it produces. A pattern
// of length 1 Tap is the "tap" action (mirrors TapHold's tap half); length
// 1 Hold is the "hold" action.
type Morse struct {
	Profile MorseProfile
	Actions map[MorsePattern]Action
}

// NewMorse builds an empty morse table with the given profile.
func NewMorse(profile MorseProfile) Morse {
	return Morse{Profile: profile, Actions: make(map[MorsePattern]Action)}
}

// ActionFor returns the action bound to pattern, or No if unset.
func (m Morse) ActionFor(pattern MorsePattern) Action {
	if a, ok := m.Actions[pattern]; ok {
		return a
	}
	return No
}

// HasExtension reports whether any stored pattern strictly extends prefix,
// i.e. whether waiting longer could still change the outcome.
func (m Morse) HasExtension(prefix MorsePattern) bool {
	prefixLen := prefix.Len()
	for p := range m.Actions {
		if p == prefix {
			continue
		}
		if p.Len() <= prefixLen {
			continue
		}
		if hasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(p, prefix MorsePattern) bool {
	pn, qn := prefix.Len(), p.Len()
	if qn < pn {
		return false
	}
	for i := uint(0); i < pn; i++ {
		if p.At(i) != prefix.At(i) {
			return false
		}
	}
	return true
}

// PredictFinal returns the unique action reachable from prefix, if exactly
// one stored pattern either equals prefix-with-one-more-symbol-fixed or
// prefix is itself already a complete, unextendable pattern. This lets the
// resolver stop waiting as soon as the outcome can no longer change.
func (m Morse) PredictFinal(prefix MorsePattern) (Action, bool) {
	if !m.HasExtension(prefix) {
		if a, ok := m.Actions[prefix]; ok {
			return a, true
		}
	}
	// Exactly one reachable completion from here (typical tap-hold: two
	// patterns, Tap and Hold, both length 1).
	var candidates []Action
	seen := map[MorsePattern]bool{}
	prefixLen := prefix.Len()
	for p, a := range m.Actions {
		if p.Len() < prefixLen {
			continue
		}
		if !hasPrefix(p, prefix) && p != prefix {
			continue
		}
		if !seen[p] {
			seen[p] = true
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return No, false
}
