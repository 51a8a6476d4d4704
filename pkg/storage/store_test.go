// SPDX-License-Identifier: BSD-3-Clause

package storage

import (
	"path/filepath"
	"testing"

	"github.com/rmkfw/rmk/pkg/keycode"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage.db")
	st, err := Open(path, 8, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestApplyAndLoadKeymapKey(t *testing.T) {
	st := openTestStore(t)

	ka := keycode.KASingle(keycode.Action{Kind: keycode.ActionKey, Code: keycode.KCA})
	if err := st.Apply(KeymapKeyWrite{Layer: 0, Row: 1, Col: 2, Action: ka}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	boot, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := boot.Keymap[keymapKey(0, 1, 2)]
	if !ok {
		t.Fatal("expected keymap record to be present")
	}
	if got != ka {
		t.Fatalf("got %+v, want %+v", got, ka)
	}
}

func TestClearSlotRemovesProfileInfo(t *testing.T) {
	st := openTestStore(t)

	if err := st.Apply(ProfileInfoWrite{Profile: 2, Info: ProfileInfo{Bonded: true, CCCDEnabled: true}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	boot, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := boot.ProfileInfos[2]; !ok {
		t.Fatal("expected profile info to be present before ClearSlot")
	}

	if err := st.Apply(ClearSlot{Profile: 2}); err != nil {
		t.Fatalf("Apply ClearSlot: %v", err)
	}
	boot, err = st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := boot.ProfileInfos[2]; ok {
		t.Fatal("expected profile info to be removed after ClearSlot")
	}
}

func TestResetWipesAllBuckets(t *testing.T) {
	st := openTestStore(t)

	if err := st.Apply(ActiveBleProfileWrite{Profile: 3}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := st.Apply(MacroWrite{Bytes: []byte{1, 2, 3}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if err := st.Apply(Reset{}); err != nil {
		t.Fatalf("Apply Reset: %v", err)
	}
	boot, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if boot.ActiveBleProfile != 0 || len(boot.MacroBytes) != 0 {
		t.Fatalf("expected defaults after reset, got %+v", boot)
	}
}

func TestSubmitDropsWhenChannelFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	st, err := Open(path, 1, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	st.Submit(ActiveBleProfileWrite{Profile: 1})
	st.Submit(ActiveBleProfileWrite{Profile: 2}) // channel full, dropped rather than blocking

	select {
	case req := <-st.WriteChannel():
		if req.(ActiveBleProfileWrite).Profile != 1 {
			t.Fatalf("expected first submitted write to win, got %+v", req)
		}
	default:
		t.Fatal("expected one pending write")
	}
}
