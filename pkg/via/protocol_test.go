// SPDX-License-Identifier: BSD-3-Clause

package via

import (
	"encoding/binary"
	"testing"

	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/keymap"
	"github.com/rmkfw/rmk/pkg/macro"
	"github.com/rmkfw/rmk/pkg/morse"
)

func newTestService() (*Service, *keymap.KeyMap) {
	km := keymap.New(2, 2, 2, 1)
	combos := combo.New(nil, nil)
	forks := fork.New(nil)
	morses := morse.NewTable(4)
	macros := macro.NewBuffer()
	return NewService(km, combos, forks, morses, macros, nil, nil, nil), km
}

func report(bytes ...byte) []byte {
	r := make([]byte, ReportSize)
	copy(r, bytes)
	return r
}

func TestHandleShortReport(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Handle(make([]byte, 4)); err != ErrShortReport {
		t.Fatalf("got err %v, want ErrShortReport", err)
	}
}

func TestHandleGetProtocolVersion(t *testing.T) {
	svc, _ := newTestService()
	out, err := svc.Handle(report(byte(CmdGetProtocolVersion)))
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint16(out[1:3]); got != protocolVersion {
		t.Fatalf("got version %#x, want %#x", got, protocolVersion)
	}
}

func TestHandleUnhandledCommand(t *testing.T) {
	svc, _ := newTestService()
	out, err := svc.Handle(report(0xAA))
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != byte(CmdUnhandled) {
		t.Fatalf("got cmd echo %#x, want CmdUnhandled", out[0])
	}
}

func TestHandleGetSetKeyCode(t *testing.T) {
	svc, km := newTestService()
	_ = km

	setReq := report(byte(CmdDynamicKeymapSetKeyCode), 0, 1, 0)
	binary.BigEndian.PutUint16(setReq[4:6], 0x04) // A
	if _, err := svc.Handle(setReq); err != nil {
		t.Fatal(err)
	}

	getReq := report(byte(CmdDynamicKeymapGetKeyCode), 0, 1, 0)
	out, err := svc.Handle(getReq)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint16(out[4:6]); got != 0x04 {
		t.Fatalf("got keycode %#x, want 0x04", got)
	}

	action := km.GetActionAt(0, 1, 0)
	if action.Kind != keycode.KeyActionSingle || action.Action.Code != keycode.KCA {
		t.Fatalf("keymap not updated: %+v", action)
	}
}

func TestHandleGetSetEncoder(t *testing.T) {
	svc, _ := newTestService()

	setReq := report(byte(CmdDynamicKeymapSetEncoder), 0, 0, 1) // layer 0, idx 0, clockwise
	binary.BigEndian.PutUint16(setReq[4:6], 0x05)                // B
	if _, err := svc.Handle(setReq); err != nil {
		t.Fatal(err)
	}

	getReq := report(byte(CmdDynamicKeymapGetEncoder), 0, 0, 1)
	out, err := svc.Handle(getReq)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint16(out[4:6]); got != 0x05 {
		t.Fatalf("got keycode %#x, want 0x05", got)
	}
}

func TestHandleGetLayerCount(t *testing.T) {
	svc, _ := newTestService()
	out, err := svc.Handle(report(byte(CmdDynamicKeymapGetLayerCount)))
	if err != nil {
		t.Fatal(err)
	}
	if out[1] != 2 {
		t.Fatalf("got layer count %d, want 2", out[1])
	}
}

func TestHandleMacroGetCount(t *testing.T) {
	svc, _ := newTestService()
	out, err := svc.Handle(report(byte(CmdDynamicKeymapMacroGetCount)))
	if err != nil {
		t.Fatal(err)
	}
	if out[1] != macro.MaxMacros {
		t.Fatalf("got %d, want %d", out[1], macro.MaxMacros)
	}
}

func TestHandleMacroGetBufferSize(t *testing.T) {
	svc, _ := newTestService()
	out, err := svc.Handle(report(byte(CmdDynamicKeymapMacroGetBufferSize)))
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint16(out[1:3]); got != macro.SpaceSize {
		t.Fatalf("got size %d, want %d", got, macro.SpaceSize)
	}
}

func TestHandleMacroSetGetBufferOversizeRejected(t *testing.T) {
	svc, _ := newTestService()
	req := report(byte(CmdDynamicKeymapMacroSetBuffer), 0, 0, 200)
	out, err := svc.Handle(req)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 0xFF {
		t.Fatalf("oversize macro write should be rejected, got out[0]=%#x", out[0])
	}
}

func TestHandleMacroSetGetBufferRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	payload := []byte{'a', 'b', 0, 'c', 0}
	setReq := report(byte(CmdDynamicKeymapMacroSetBuffer), 0, 0, byte(len(payload)))
	copy(setReq[4:], payload)
	if _, err := svc.Handle(setReq); err != nil {
		t.Fatal(err)
	}

	getReq := report(byte(CmdDynamicKeymapMacroGetBuffer), 0, 0, byte(len(payload)))
	out, err := svc.Handle(getReq)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range payload {
		if out[4+i] != b {
			t.Fatalf("byte %d: got %#x, want %#x", i, out[4+i], b)
		}
	}
}

func TestHandleKeymapBufferRoundTrip(t *testing.T) {
	svc, km := newTestService()

	// Layer 0, position (0,0): offset 0, one 2-byte entry little-endian.
	setReq := report(byte(CmdDynamicKeymapSetBuffer), 0, 0, 2)
	binary.LittleEndian.PutUint16(setReq[4:6], 0x05) // B
	if _, err := svc.Handle(setReq); err != nil {
		t.Fatal(err)
	}
	if a := km.GetActionAt(0, 0, 0); a.Action.Code != keycode.KCB {
		t.Fatalf("keymap not updated via buffer write: %+v", a)
	}

	getReq := report(byte(CmdDynamicKeymapGetBuffer), 0, 0, 2)
	out, err := svc.Handle(getReq)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint16(out[4:6]); got != 0x05 {
		t.Fatalf("got %#x, want 0x05", got)
	}
}

func TestHandleKeymapBufferOversizeClamped(t *testing.T) {
	// A keymap with enough layers that the layer-count bound alone won't
	// stop the loop before size/2 iterations: size=255 must be clamped to
	// ReportSize-4, or writing out[idx:idx+2] for every iteration would
	// walk past the 32-byte report and panic.
	km := keymap.New(20, 2, 2, 1)
	svc := NewService(km, combo.New(nil, nil), fork.New(nil), morse.NewTable(4), macro.NewBuffer(), nil, nil, nil)

	req := report(byte(CmdDynamicKeymapGetBuffer), 0, 0, 255)
	if _, err := svc.Handle(req); err != nil {
		t.Fatal(err)
	}

	setReq := report(byte(CmdDynamicKeymapSetBuffer), 0, 0, 255)
	if _, err := svc.Handle(setReq); err != nil {
		t.Fatal(err)
	}
}

func TestHandleEepromReset(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Handle(report(byte(CmdEepromReset))); err != nil {
		t.Fatal(err)
	}
}
