// SPDX-License-Identifier: BSD-3-Clause

package fork

import (
	"testing"

	"github.com/rmkfw/rmk/pkg/keycode"
)

func TestRewriteOnlyWhenConditionModsHeld(t *testing.T) {
	e := New([]Fork{
		{Trigger: keycode.KC1, CondMods: keycode.ModShift, ReplaceIf: keycode.KCF1},
	})

	if got := e.Rewrite(keycode.KC1, 0); got != keycode.KC1 {
		t.Fatalf("expected unchanged keycode with no mods held, got %v", got)
	}
	if got := e.Rewrite(keycode.KC1, keycode.ModShift); got != keycode.KCF1 {
		t.Fatalf("expected rewritten keycode with Shift held, got %v", got)
	}
}
