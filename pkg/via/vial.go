// SPDX-License-Identifier: BSD-3-Clause

package via

import "github.com/rmkfw/rmk/pkg/storage"

// VialSubcommand tags the request dispatched from report byte 1 when the
// top-level command is CmdVial.
type VialSubcommand uint8

const (
	VialGetKeyboardID   VialSubcommand = 0x00
	VialGetSize         VialSubcommand = 0x01
	VialGetDef          VialSubcommand = 0x02
	VialGetEncoder      VialSubcommand = 0x03
	VialSetEncoder      VialSubcommand = 0x04
	VialGetUnlockStatus VialSubcommand = 0x05
	VialUnlockStart     VialSubcommand = 0x06
	VialUnlockPoll      VialSubcommand = 0x07
	VialLock            VialSubcommand = 0x08

	VialComboCount VialSubcommand = 0x10
	VialComboGet   VialSubcommand = 0x11
	VialComboSet   VialSubcommand = 0x12
	VialForkCount  VialSubcommand = 0x13
	VialForkGet    VialSubcommand = 0x14
	VialForkSet    VialSubcommand = 0x15
	VialMorseCount VialSubcommand = 0x16
	VialMorseGet   VialSubcommand = 0x17
	VialMorseSet   VialSubcommand = 0x18
)

// vialPayloadCap is how many bytes of a 32-byte report remain for a
// variable-length combo/morse record once the command, subcommand, and
// index bytes are spent.
const vialPayloadCap = ReportSize - 3

func (s *Service) handleVial(report, out []byte) {
	sub := VialSubcommand(report[1])
	switch sub {
	case VialGetKeyboardID:
		// No embedded vial.json identity in this build; report all-zero.
	case VialGetSize, VialGetDef:
		// No embedded Vial UI definition blob is served by this firmware.
		out[1], out[2] = 0, 0
	case VialGetEncoder:
		s.getEncoder(report[1:], out[1:])
	case VialSetEncoder:
		s.setEncoder(report[1:], out[1:])
	case VialGetUnlockStatus:
		unlocked, configured := s.unlock.status()
		out[2] = boolByte(unlocked)
		out[3] = boolByte(configured)
	case VialUnlockStart:
		challenge, err := s.unlock.start()
		if err != nil {
			s.logger.Warn("vial unlock challenge generation failed", "err", err)
			return
		}
		copy(out[2:2+unlockDigestSize], challenge[:])
	case VialUnlockPoll:
		unlocked := s.unlock.poll(report[2 : 2+unlockDigestSize])
		out[2] = boolByte(unlocked)
	case VialLock:
		s.unlock.lock()

	case VialComboCount:
		out[2] = byte(s.combos.Count())
	case VialComboGet:
		s.getCombo(report, out)
	case VialComboSet:
		s.setCombo(report, out)
	case VialForkCount:
		out[2] = byte(s.forks.Count())
	case VialForkGet:
		s.getFork(report, out)
	case VialForkSet:
		s.setFork(report, out)
	case VialMorseCount:
		out[2] = byte(s.morses.Count())
	case VialMorseGet:
		s.getMorse(report, out)
	case VialMorseSet:
		s.setMorse(report, out)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (s *Service) requireUnlocked() bool {
	unlocked, _ := s.unlock.status()
	return unlocked
}

func (s *Service) getCombo(report, out []byte) {
	idx := int(report[2])
	c, ok := s.combos.Get(idx)
	if !ok {
		out[1] = 0xFF
		return
	}
	enc := storage.EncodeCombo(c)
	if len(enc) > vialPayloadCap {
		out[1] = 0xFF // too many keys/long timeout to fit a single report
		return
	}
	copy(out[3:], enc)
}

func (s *Service) setCombo(report, out []byte) {
	if !s.requireUnlocked() {
		out[1] = 0xFF
		return
	}
	idx := int(report[2])
	if len(report) <= 3 {
		out[1] = 0xFF
		return
	}
	n := int(report[3])
	need := 1 + 2*n + 6 + 2 + 2
	if need > vialPayloadCap || 3+need > len(report) {
		out[1] = 0xFF
		return
	}
	c, err := storage.DecodeCombo(report[3 : 3+need])
	if err != nil {
		out[1] = 0xFF
		return
	}
	if !s.combos.Set(idx, c) {
		out[1] = 0xFF
		return
	}
	if s.store != nil {
		s.store.Submit(storage.ComboWrite{Idx: uint8(idx), Combo: c})
	}
}

func (s *Service) getFork(report, out []byte) {
	idx := int(report[2])
	f, ok := s.forks.Get(idx)
	if !ok {
		out[1] = 0xFF
		return
	}
	copy(out[3:], storage.EncodeFork(f))
}

func (s *Service) setFork(report, out []byte) {
	if !s.requireUnlocked() {
		out[1] = 0xFF
		return
	}
	idx := int(report[2])
	f, err := storage.DecodeFork(report[3:8])
	if err != nil {
		out[1] = 0xFF
		return
	}
	if !s.forks.Set(idx, f) {
		out[1] = 0xFF
		return
	}
	if s.store != nil {
		s.store.Submit(storage.ForkWrite{Idx: uint8(idx), Fork: f})
	}
}

func (s *Service) getMorse(report, out []byte) {
	idx := report[2]
	if int(idx) >= s.morses.Count() {
		out[1] = 0xFF
		return
	}
	m := s.morses.GetMorse(idx)
	enc := storage.EncodeMorse(m)
	if len(enc) > vialPayloadCap {
		out[1] = 0xFF // table too large for a single report; see DESIGN.md
		return
	}
	copy(out[3:], enc)
}

func (s *Service) setMorse(report, out []byte) {
	if !s.requireUnlocked() {
		out[1] = 0xFF
		return
	}
	idx := int(report[2])
	if len(report) <= 7 {
		out[1] = 0xFF
		return
	}
	n := int(report[7])
	need := 5 + n*8
	if need > vialPayloadCap || 3+need > len(report) {
		out[1] = 0xFF
		return
	}
	m, err := storage.DecodeMorse(report[3 : 3+need])
	if err != nil {
		out[1] = 0xFF
		return
	}
	if !s.morses.Set(idx, m) {
		out[1] = 0xFF
		return
	}
	if s.store != nil {
		s.store.Submit(storage.MorseWrite{Idx: uint8(idx), Morse: m})
	}
}
