// SPDX-License-Identifier: BSD-3-Clause

package via

import (
	"encoding/binary"
	"log/slog"

	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/keymap"
	"github.com/rmkfw/rmk/pkg/macro"
	"github.com/rmkfw/rmk/pkg/morse"
	"github.com/rmkfw/rmk/pkg/storage"
)

// ReportSize is the fixed VIA/Vial HID report length, in both directions.
const ReportSize = 32

// ViaCommand tags the top-level request dispatched from report byte 0.
type ViaCommand uint8

const (
	CmdGetProtocolVersion ViaCommand = iota + 1
	CmdGetKeyboardValue
	CmdSetKeyboardValue
	CmdDynamicKeymapGetKeyCode
	CmdDynamicKeymapSetKeyCode
	CmdDynamicKeymapReset
	CmdCustomSetValue
	CmdCustomGetValue
	CmdCustomSave
	CmdEepromReset
	CmdBootloaderJump
	CmdDynamicKeymapMacroGetCount
	CmdDynamicKeymapMacroGetBufferSize
	CmdDynamicKeymapMacroGetBuffer
	CmdDynamicKeymapMacroSetBuffer
	CmdDynamicKeymapMacroReset
	CmdDynamicKeymapGetLayerCount
	CmdDynamicKeymapGetBuffer
	CmdDynamicKeymapSetBuffer
	CmdDynamicKeymapGetEncoder
	CmdDynamicKeymapSetEncoder

	CmdVial      ViaCommand = 0xFE
	CmdUnhandled ViaCommand = 0xFF
)

// ViaKeyboardInfo is the GetKeyboardValue/SetKeyboardValue subcommand, from
// report byte 1.
type ViaKeyboardInfo uint8

const (
	InfoUptime ViaKeyboardInfo = iota + 1
	InfoLayoutOptions
	InfoSwitchMatrixState
	InfoFirmwareVersion
	InfoDeviceIndication
)

const (
	protocolVersion = 0x0009
	firmwareVersion = 0x00000001
)

// Service dispatches VIA/Vial reports against a live keymap and behavior
// tables, issuing the same persistence notifications a direct call to
// keymap.SetActionAt would.
type Service struct {
	keymap *keymap.KeyMap
	combos *combo.Engine
	forks  *fork.Engine
	morses *morse.Table
	macros *macro.Buffer
	store  *storage.Store
	unlock *unlockState
	logger *slog.Logger
}

// NewService builds a via.Service over the live behavior state. store and
// unlockKey may both be nil: without a store, edits aren't persisted across
// reboot; without an unlock key, every Vial subcommand is treated as
// already unlocked (a "no lock configured" keyboard).
func NewService(km *keymap.KeyMap, combos *combo.Engine, forks *fork.Engine, morses *morse.Table, macros *macro.Buffer, store *storage.Store, unlockKey []byte, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		keymap: km,
		combos: combos,
		forks:  forks,
		morses: morses,
		macros: macros,
		store:  store,
		unlock: newUnlockState(unlockKey),
		logger: logger,
	}
}

// Handle processes one 32-byte host request and returns the 32-byte
// response, mirroring process_via_packet's "input_data is initialized from
// output_data, then mutated in place" convention.
func (s *Service) Handle(report []byte) ([]byte, error) {
	if len(report) < ReportSize {
		return nil, ErrShortReport
	}
	out := make([]byte, ReportSize)
	copy(out, report[:ReportSize])

	cmd := ViaCommand(report[0])
	switch cmd {
	case CmdGetProtocolVersion:
		binary.BigEndian.PutUint16(out[1:3], protocolVersion)

	case CmdGetKeyboardValue:
		s.getKeyboardValue(report, out)

	case CmdSetKeyboardValue:
		s.setKeyboardValue(report, out)

	case CmdDynamicKeymapGetKeyCode:
		s.getKeyCode(report, out)

	case CmdDynamicKeymapSetKeyCode:
		s.setKeyCode(report, out)

	case CmdDynamicKeymapReset:
		s.logger.Warn("dynamic keymap reset not supported")

	case CmdCustomSetValue, CmdCustomGetValue, CmdCustomSave:
		s.logger.Debug("custom value command not supported", "cmd", cmd)

	case CmdEepromReset:
		if s.store != nil {
			s.store.Submit(storage.Reset{})
		}

	case CmdBootloaderJump:
		s.logger.Warn("bootloader jump not supported")

	case CmdDynamicKeymapMacroGetCount:
		out[1] = macro.MaxMacros

	case CmdDynamicKeymapMacroGetBufferSize:
		binary.BigEndian.PutUint16(out[1:3], uint16(s.macros.Size()))

	case CmdDynamicKeymapMacroGetBuffer:
		s.getMacroBuffer(report, out)

	case CmdDynamicKeymapMacroSetBuffer:
		s.setMacroBuffer(report, out)

	case CmdDynamicKeymapMacroReset:
		s.macros.Reset()
		if s.store != nil {
			s.store.Submit(storage.MacroWrite{Bytes: s.macros.Bytes()})
		}

	case CmdDynamicKeymapGetLayerCount:
		out[1] = byte(s.keymap.LayerCount())

	case CmdDynamicKeymapGetBuffer:
		s.getKeymapBuffer(report, out)

	case CmdDynamicKeymapSetBuffer:
		s.setKeymapBuffer(report, out)

	case CmdDynamicKeymapGetEncoder:
		s.getEncoder(report, out)

	case CmdDynamicKeymapSetEncoder:
		s.setEncoder(report, out)

	case CmdVial:
		s.handleVial(report, out)

	default:
		out[0] = byte(CmdUnhandled)
	}

	return out, nil
}

func (s *Service) getKeyboardValue(report, out []byte) {
	switch ViaKeyboardInfo(report[1]) {
	case InfoUptime:
		binary.BigEndian.PutUint32(out[2:6], keycode.NowMs())
	case InfoLayoutOptions:
		binary.BigEndian.PutUint32(out[2:6], 0)
	case InfoFirmwareVersion:
		binary.BigEndian.PutUint32(out[2:6], firmwareVersion)
	case InfoSwitchMatrixState:
		s.logger.Debug("switch matrix state query not supported")
	}
}

func (s *Service) setKeyboardValue(report, out []byte) {
	switch ViaKeyboardInfo(report[1]) {
	case InfoLayoutOptions:
		// Accepted but not persisted: this repository has no separate
		// layout-option store distinct from the keymap itself.
	case InfoDeviceIndication:
		s.logger.Debug("device indication not supported")
	}
}

func (s *Service) getKeyCode(report, out []byte) {
	layer, row, col := report[1], report[2], report[3]
	action := s.keymap.GetActionAt(layer, row, col)
	binary.BigEndian.PutUint16(out[4:6], ToViaKeyCode(action))
}

func (s *Service) setKeyCode(report, out []byte) {
	layer, row, col := report[1], report[2], report[3]
	code := binary.BigEndian.Uint16(report[4:6])
	action := FromViaKeyCode(code)
	if err := s.keymap.SetActionAt(layer, row, col, action); err != nil {
		s.logger.Warn("via set keycode out of range", "err", err)
	}
}

func (s *Service) getEncoder(report, out []byte) {
	layer, idx, clockwise := report[1], report[2], report[3] != 0
	enc := s.keymap.GetEncoderActionAt(layer, idx)
	ka := enc.CounterClockwise
	if clockwise {
		ka = enc.Clockwise
	}
	binary.BigEndian.PutUint16(out[4:6], ToViaKeyCode(ka))
}

func (s *Service) setEncoder(report, out []byte) {
	layer, idx, clockwise := report[1], report[2], report[3] != 0
	code := binary.BigEndian.Uint16(report[4:6])
	ka := FromViaKeyCode(code)
	enc := s.keymap.GetEncoderActionAt(layer, idx)
	if clockwise {
		enc.Clockwise = ka
	} else {
		enc.CounterClockwise = ka
	}
	if err := s.keymap.SetEncoderActionAt(layer, idx, enc); err != nil {
		s.logger.Warn("via set encoder out of range", "err", err)
	}
}

func (s *Service) getMacroBuffer(report, out []byte) {
	offset := binary.BigEndian.Uint16(report[1:3])
	size := report[3]
	if size > 28 {
		out[0] = 0xFF
		return
	}
	s.macros.ReadAt(int(offset), out[4:4+size])
}

func (s *Service) setMacroBuffer(report, out []byte) {
	offset := binary.BigEndian.Uint16(report[1:3])
	size := report[3]
	if size > 28 {
		out[0] = 0xFF
		return
	}
	s.macros.WriteAt(int(offset), report[4:4+size])

	end := int(offset) + int(size)
	window := make([]byte, end)
	s.macros.ReadAt(0, window)
	if size < 28 || macro.CountZeros(window) >= macro.MaxMacros {
		if s.store != nil {
			s.store.Submit(storage.MacroWrite{Bytes: s.macros.Bytes()})
		}
	}
}

// keymapOffset locates the (layer,row,col) a flat keymap-buffer offset
// refers to: every layer's rows*cols actions laid out consecutively.
func keymapOffset(offset, rows, cols int) (layer, row, col int) {
	perLayer := rows * cols
	layer = offset / perLayer
	rem := offset % perLayer
	return layer, rem / cols, rem % cols
}

func (s *Service) getKeymapBuffer(report, out []byte) {
	offset := binary.BigEndian.Uint16(report[1:3])
	size := int(report[3])
	if size > ReportSize-4 {
		size = ReportSize - 4
	}
	rows, cols := s.keymap.Rows(), s.keymap.Cols()
	idx := 4
	for i := 0; i < size/2; i++ {
		l, r, c := keymapOffset(int(offset)/2+i, rows, cols)
		if l >= s.keymap.LayerCount() {
			break
		}
		kc := ToViaKeyCode(s.keymap.GetActionAt(uint8(l), uint8(r), uint8(c)))
		binary.BigEndian.PutUint16(out[idx:idx+2], kc)
		idx += 2
	}
}

func (s *Service) setKeymapBuffer(report, out []byte) {
	offset := binary.BigEndian.Uint16(report[1:3])
	size := int(report[3])
	if size > ReportSize-4 {
		size = ReportSize - 4
	}
	rows, cols := s.keymap.Rows(), s.keymap.Cols()
	idx := 4
	for i := 0; i < size/2; i++ {
		code := binary.LittleEndian.Uint16(report[idx : idx+2])
		idx += 2
		l, r, c := keymapOffset(int(offset)/2+i, rows, cols)
		if l >= s.keymap.LayerCount() {
			break
		}
		if err := s.keymap.SetActionAt(uint8(l), uint8(r), uint8(c), FromViaKeyCode(code)); err != nil {
			s.logger.Warn("via set keymap buffer out of range", "err", err)
		}
	}
}
