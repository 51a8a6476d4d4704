// SPDX-License-Identifier: BSD-3-Clause

package macro

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rmkfw/rmk/pkg/keycode"
)

type recordingDriver struct {
	mu     sync.Mutex
	events []string
}

func (d *recordingDriver) PressKeycode(kc keycode.KeyCode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, "press:"+kc.String())
}

func (d *recordingDriver) ReleaseKeycode(kc keycode.KeyCode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, "release:"+kc.String())
}

func (d *recordingDriver) snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

func TestMacroTapPressReleaseOpcodes(t *testing.T) {
	d := &recordingDriver{}
	blob := []byte{
		0x01, 0x01, byte(keycode.KCA), // tap A
		0x01, 0x02, byte(keycode.KCLeftShift), // press Shift
		0x01, 0x03, byte(keycode.KCLeftShift), // release Shift
		0x00,
	}
	e := New(context.Background(), Table{Blobs: map[uint8][]byte{0: blob}}, d)
	defer e.Close()

	e.Trigger(0)
	waitFor(t, func() bool { return len(d.snapshot()) == 4 })

	got := d.snapshot()
	want := []string{"press:" + keycode.KCA.String(), "release:" + keycode.KCA.String(), "press:" + keycode.KCLeftShift.String(), "release:" + keycode.KCLeftShift.String()}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("event %d: got %q want %q (full: %v)", i, got[i], w, got)
		}
	}
}

func TestMacroDelayDoesNotBlockOtherMacros(t *testing.T) {
	d := &recordingDriver{}
	slow := []byte{0x01, 0x01, byte(keycode.KCX), 0x01, 0x04, 51, 1, 0x01, 0x01, byte(keycode.KCY), 0x00}
	fast := []byte{0x01, 0x01, byte(keycode.KCZ), 0x00}
	e := New(context.Background(), Table{Blobs: map[uint8][]byte{0: slow, 1: fast}}, d)
	defer e.Close()

	e.Trigger(0)
	e.Trigger(1)

	waitFor(t, func() bool {
		evs := d.snapshot()
		for _, ev := range evs {
			if ev == "press:"+keycode.KCZ.String() {
				return true
			}
		}
		return false
	})
}

func TestMacroASCIIExpandShiftsUppercase(t *testing.T) {
	d := &recordingDriver{}
	blob := []byte{'H', 'i', 0x00}
	e := New(context.Background(), Table{Blobs: map[uint8][]byte{0: blob}}, d)
	defer e.Close()

	e.Trigger(0)
	waitFor(t, func() bool { return len(d.snapshot()) == 6 })

	got := d.snapshot()
	if got[0] != "press:"+keycode.KCLeftShift.String() {
		t.Fatalf("expected Shift pressed for uppercase H, got %v", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
