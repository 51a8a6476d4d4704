// SPDX-License-Identifier: BSD-3-Clause

package mouse

import (
	"sync"
	"testing"
	"time"

	"github.com/rmkfw/rmk/pkg/hidreport"
	"github.com/rmkfw/rmk/pkg/keycode"
)

type recordingReporter struct {
	mu      sync.Mutex
	reports []hidreport.Report
}

func (r *recordingReporter) Report(rep hidreport.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
}

func (r *recordingReporter) last() hidreport.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reports[len(r.reports)-1]
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func waitForCount(t *testing.T, r *recordingReporter, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.count() >= n {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d reports, got %d", n, r.count())
}

func TestButtonPressReportsImmediatelyWithoutTicking(t *testing.T) {
	rep := &recordingReporter{}
	cfg := Config{Key: keycode.MouseKey{InitialSpeed: 4, MaxSpeed: 24, TimeToMaxMs: 900, AccelInterval: 16}}
	e := New(cfg, rep)

	e.Press(keycode.KCMouseBtn1, 0)
	waitForCount(t, rep, 1)

	last := rep.last()
	if last.Kind != hidreport.ReportMouse {
		t.Fatalf("expected mouse report, got %+v", last)
	}
	if last.Mouse.Buttons != 1 {
		t.Fatalf("expected button 1 bit set, got %08b", last.Mouse.Buttons)
	}

	e.Release(keycode.KCMouseBtn1, 1)
	waitForCount(t, rep, 2)
	if rep.last().Mouse.Buttons != 0 {
		t.Fatalf("expected buttons cleared after release, got %08b", rep.last().Mouse.Buttons)
	}
}

func TestMovementKeyRampsUpAndSettlesOnRelease(t *testing.T) {
	rep := &recordingReporter{}
	cfg := Config{Key: keycode.MouseKey{InitialSpeed: 4, MaxSpeed: 24, TimeToMaxMs: 40, AccelInterval: 4}}
	e := New(cfg, rep)

	e.Press(keycode.KCMouseRight, 0)
	waitForCount(t, rep, 3)

	first := rep.reports[0]
	if first.Mouse.X <= 0 {
		t.Fatalf("expected positive X movement on first tick, got %d", first.Mouse.X)
	}

	n := rep.count()
	e.Release(keycode.KCMouseRight, 100)
	waitForCount(t, rep, n+1)
	if last := rep.last(); last.Mouse.X != 0 || last.Mouse.Y != 0 {
		t.Fatalf("expected zero-delta settle report after release, got %+v", last.Mouse)
	}
}

func TestAccelOverrideUsesFixedSpeedRegardlessOfTickCount(t *testing.T) {
	rep := &recordingReporter{}
	cfg := Config{
		Key:            keycode.MouseKey{InitialSpeed: 4, MaxSpeed: 24, TimeToMaxMs: 900, AccelInterval: 4},
		AccelOverrides: [3]uint16{1, 15, 50},
	}
	e := New(cfg, rep)

	e.Press(keycode.KCMouseAccel2, 0)
	e.Press(keycode.KCMouseRight, 0)
	waitForCount(t, rep, 3)

	for _, r := range rep.reports[:3] {
		if r.Mouse.X != 50 {
			t.Fatalf("expected fixed override speed 50, got %d", r.Mouse.X)
		}
	}
	e.Release(keycode.KCMouseRight, 0)
	e.Release(keycode.KCMouseAccel2, 0)
}

func TestDiagonalMovementIsScaledDown(t *testing.T) {
	rep := &recordingReporter{}
	cfg := Config{
		Key:            keycode.MouseKey{InitialSpeed: 20, MaxSpeed: 20, TimeToMaxMs: 16, AccelInterval: 4},
		AccelOverrides: [3]uint16{1, 15, 50},
	}
	e := New(cfg, rep)

	e.Press(keycode.KCMouseRight, 0)
	e.Press(keycode.KCMouseDown, 0)
	waitForCount(t, rep, 2)

	last := rep.last()
	if last.Mouse.X == 0 || last.Mouse.Y == 0 {
		t.Fatalf("expected nonzero diagonal movement, got %+v", last.Mouse)
	}
	if int(last.Mouse.X) >= 20 {
		t.Fatalf("expected diagonal X scaled below axis speed 20, got %d", last.Mouse.X)
	}

	e.Release(keycode.KCMouseRight, 0)
	e.Release(keycode.KCMouseDown, 0)
}
