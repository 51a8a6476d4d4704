// SPDX-License-Identifier: BSD-3-Clause

package keymap

import (
	"testing"

	"github.com/rmkfw/rmk/pkg/keycode"
)

func TestResolveFallsThroughTransparent(t *testing.T) {
	km := New(3, 1, 1, 0)
	_ = km.SetActionAt(0, 0, 0, keycode.KASingle(keycode.Key(keycode.KCA)))

	km.ActivateLayer(1) // layer 1 stays transparent at (0,0)
	a, layer := km.Resolve(keycode.Position{Row: 0, Col: 0})
	if a.Kind != keycode.KeyActionSingle || a.Action.Code != keycode.KCA {
		t.Fatalf("expected fallthrough to default layer's Key(A), got %+v on layer %d", a, layer)
	}
}

func TestResolveHighestActiveLayerWins(t *testing.T) {
	km := New(3, 1, 1, 0)
	_ = km.SetActionAt(0, 0, 0, keycode.KASingle(keycode.Key(keycode.KCA)))
	_ = km.SetActionAt(2, 0, 0, keycode.KASingle(keycode.Key(keycode.KCB)))

	km.ActivateLayer(1)
	km.ActivateLayer(2)
	a, layer := km.Resolve(keycode.Position{Row: 0, Col: 0})
	if layer != 2 || a.Action.Code != keycode.KCB {
		t.Fatalf("expected layer 2's Key(B) to win, got layer=%d action=%+v", layer, a)
	}
}

func TestLayerCacheSurvivesLayerChangeBetweenPressAndRelease(t *testing.T) {
	km := New(2, 1, 1, 0)
	_ = km.SetActionAt(0, 0, 0, keycode.KASingle(keycode.Key(keycode.KCA)))
	_ = km.SetActionAt(1, 0, 0, keycode.KASingle(keycode.Key(keycode.KCB)))

	pos := keycode.Position{Row: 0, Col: 0}
	press := km.GetActionWithLayerCache(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: 0})
	if press.Action.Code != keycode.KCA {
		t.Fatalf("expected press to resolve to A on default layer, got %+v", press)
	}

	km.ActivateLayer(1) // layer changes while the key is still held

	release := km.GetActionWithLayerCache(keycode.KeyEvent{Pos: pos, Pressed: false, Timestamp: 100})
	if release.Action.Code != keycode.KCA {
		t.Fatalf("release must match the layer cached at press time (A), got %+v", release)
	}
}

func TestTriLayerActivatesAdjust(t *testing.T) {
	km := New(3, 1, 1, 0)
	km.SetTriLayer(0, 1, 2)

	if km.IsLayerActive(2) {
		t.Fatalf("adjust layer should not be active yet")
	}
	km.ActivateLayer(0)
	if km.IsLayerActive(2) {
		t.Fatalf("adjust layer should not activate with only lower held")
	}
	km.ActivateLayer(1)
	if !km.IsLayerActive(2) {
		t.Fatalf("adjust layer should activate once both lower and upper are held")
	}
	km.DeactivateLayer(1)
	if km.IsLayerActive(2) {
		t.Fatalf("adjust layer should deactivate once either half clears")
	}
}
