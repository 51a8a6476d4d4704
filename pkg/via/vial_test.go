// SPDX-License-Identifier: BSD-3-Clause

package via

import (
	"testing"

	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/keymap"
	"github.com/rmkfw/rmk/pkg/macro"
	"github.com/rmkfw/rmk/pkg/morse"
	"github.com/rmkfw/rmk/pkg/storage"
)

func newUnlockedTestService(combos []combo.Combo, forks []fork.Fork, morseSlots int) *Service {
	km := keymap.New(2, 2, 2, 1)
	ce := combo.New(combos, nil)
	fe := fork.New(forks)
	mt := morse.NewTable(morseSlots)
	return NewService(km, ce, fe, mt, macro.NewBuffer(), nil, nil, nil)
}

func TestVialGetUnlockStatusNoKey(t *testing.T) {
	svc := newUnlockedTestService(nil, nil, 4)
	req := report(byte(CmdVial), byte(VialGetUnlockStatus))
	out, err := svc.Handle(req)
	if err != nil {
		t.Fatal(err)
	}
	if out[2] != 1 {
		t.Fatalf("unlocked byte = %d, want 1 (no key configured)", out[2])
	}
	if out[3] != 0 {
		t.Fatalf("configured byte = %d, want 0", out[3])
	}
}

func TestVialComboCountGetSet(t *testing.T) {
	seed := []combo.Combo{{
		Keys:      []keycode.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		Output:    keycode.Key(keycode.KCEscape),
		TimeoutMs: 50,
	}}
	svc := newUnlockedTestService(seed, nil, 4)

	countReq := report(byte(CmdVial), byte(VialComboCount))
	out, err := svc.Handle(countReq)
	if err != nil {
		t.Fatal(err)
	}
	if out[2] != 1 {
		t.Fatalf("combo count = %d, want 1", out[2])
	}

	getReq := report(byte(CmdVial), byte(VialComboGet), 0)
	out, err = svc.Handle(getReq)
	if err != nil {
		t.Fatal(err)
	}
	if out[1] == 0xFF {
		t.Fatal("combo get reported not-found for a configured slot")
	}

	newCombo := combo.Combo{
		Keys:      []keycode.Position{{Row: 1, Col: 0}, {Row: 1, Col: 1}},
		Output:    keycode.Key(keycode.KCTab),
		TimeoutMs: 75,
	}
	setReq := report(byte(CmdVial), byte(VialComboSet), 0)
	enc := storage.EncodeCombo(newCombo)
	copy(setReq[3:], enc)
	if out, err = svc.Handle(setReq); err != nil {
		t.Fatal(err)
	}
	if out[1] == 0xFF {
		t.Fatal("combo set unexpectedly rejected")
	}

	c, ok := svc.combos.Get(0)
	if !ok {
		t.Fatal("combo 0 missing after set")
	}
	if c.Output.Code != keycode.KCTab || c.TimeoutMs != 75 {
		t.Fatalf("combo not updated: %+v", c)
	}
}

func TestVialForkCountGetSet(t *testing.T) {
	seed := []fork.Fork{{Trigger: keycode.KCA, CondMods: keycode.ModLeftShift, ReplaceIf: keycode.KCB}}
	svc := newUnlockedTestService(nil, seed, 4)

	out, err := svc.Handle(report(byte(CmdVial), byte(VialForkCount)))
	if err != nil {
		t.Fatal(err)
	}
	if out[2] != 1 {
		t.Fatalf("fork count = %d, want 1", out[2])
	}

	setReq := report(byte(CmdVial), byte(VialForkSet), 0)
	newFork := fork.Fork{Trigger: keycode.KCC, CondMods: keycode.ModLeftAlt, ReplaceIf: keycode.KCD}
	enc := storage.EncodeFork(newFork)
	copy(setReq[3:], enc)
	if out, err = svc.Handle(setReq); err != nil {
		t.Fatal(err)
	}
	if out[1] == 0xFF {
		t.Fatal("fork set unexpectedly rejected")
	}

	f, ok := svc.forks.Get(0)
	if !ok {
		t.Fatal("fork 0 missing after set")
	}
	if f.Trigger != keycode.KCC || f.ReplaceIf != keycode.KCD {
		t.Fatalf("fork not updated: %+v", f)
	}
}

func TestVialMorseCountGetSet(t *testing.T) {
	svc := newUnlockedTestService(nil, nil, 3)

	out, err := svc.Handle(report(byte(CmdVial), byte(VialMorseCount)))
	if err != nil {
		t.Fatal(err)
	}
	if out[2] != 3 {
		t.Fatalf("morse count = %d, want 3", out[2])
	}

	m := keycode.NewMorse(keycode.DefaultMorseProfile())
	m.Actions[keycode.NewMorsePattern()] = keycode.Key(keycode.KCEnter)
	enc := storage.EncodeMorse(m)
	if len(enc) > vialPayloadCap {
		t.Fatalf("test morse record too large for a report: %d bytes", len(enc))
	}

	setReq := report(byte(CmdVial), byte(VialMorseSet), 1)
	copy(setReq[3:], enc)
	if out, err = svc.Handle(setReq); err != nil {
		t.Fatal(err)
	}
	if out[1] == 0xFF {
		t.Fatal("morse set unexpectedly rejected")
	}

	got := svc.morses.GetMorse(1)
	if len(got.Actions) != 1 {
		t.Fatalf("morse table not updated: %+v", got)
	}
}

func TestVialComboSetMalformedPayloadRejected(t *testing.T) {
	svc := newUnlockedTestService([]combo.Combo{{}}, nil, 4)
	setReq := report(byte(CmdVial), byte(VialComboSet), 0)
	setReq[3] = 200 // claims 200 keys, impossible in the remaining payload
	out, err := svc.Handle(setReq)
	if err != nil {
		t.Fatal(err)
	}
	if out[1] != 0xFF {
		t.Fatal("malformed combo record should be rejected, not panic or silently accept")
	}
}

func TestVialUnlockRequiredForCrudWhenConfigured(t *testing.T) {
	svc := newUnlockedTestService([]combo.Combo{{}}, nil, 4)
	svc.unlock = newUnlockState([]byte("secret"))

	setReq := report(byte(CmdVial), byte(VialComboSet), 0)
	out, err := svc.Handle(setReq)
	if err != nil {
		t.Fatal(err)
	}
	if out[1] != 0xFF {
		t.Fatal("combo set should be rejected while locked")
	}
}
