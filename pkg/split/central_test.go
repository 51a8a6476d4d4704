// SPDX-License-Identifier: BSD-3-Clause

package split

import "testing"

func TestEnsurePeripheralIDKeepsConfigured(t *testing.T) {
	got, err := EnsurePeripheralID(t.TempDir(), 0, "left-half")
	if err != nil {
		t.Fatalf("EnsurePeripheralID: %v", err)
	}
	if got != "left-half" {
		t.Fatalf("expected configured ID to pass through unchanged, got %q", got)
	}
}

func TestEnsurePeripheralIDPersistsAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	first, err := EnsurePeripheralID(dir, 0, "")
	if err != nil {
		t.Fatalf("EnsurePeripheralID (first): %v", err)
	}
	if first == "" {
		t.Fatal("expected a generated ID, got empty string")
	}

	second, err := EnsurePeripheralID(dir, 0, "")
	if err != nil {
		t.Fatalf("EnsurePeripheralID (second): %v", err)
	}
	if second != first {
		t.Fatalf("expected the same peripheral to keep its ID across restarts, got %q then %q", first, second)
	}

	other, err := EnsurePeripheralID(dir, 1, "")
	if err != nil {
		t.Fatalf("EnsurePeripheralID (slot 1): %v", err)
	}
	if other == first {
		t.Fatalf("expected distinct peripheral slots to get distinct IDs, both got %q", other)
	}
}
