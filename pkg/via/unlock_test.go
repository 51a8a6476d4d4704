// SPDX-License-Identifier: BSD-3-Clause

package via

import "testing"

func TestUnlockNoKeyConfiguredStartsUnlocked(t *testing.T) {
	u := newUnlockState(nil)
	unlocked, configured := u.status()
	if !unlocked || configured {
		t.Fatalf("got unlocked=%v configured=%v, want true/false", unlocked, configured)
	}
}

func TestUnlockKeyConfiguredStartsLocked(t *testing.T) {
	u := newUnlockState([]byte("secret"))
	unlocked, configured := u.status()
	if unlocked || !configured {
		t.Fatalf("got unlocked=%v configured=%v, want false/true", unlocked, configured)
	}
}

func TestUnlockChallengeResponseFlow(t *testing.T) {
	key := []byte("keyboard-secret")
	u := newUnlockState(key)

	challenge, err := u.start()
	if err != nil {
		t.Fatal(err)
	}

	mac, err := macFor(key, challenge[:])
	if err != nil {
		t.Fatal(err)
	}

	if unlocked := u.poll(mac[:unlockDigestSize]); !unlocked {
		t.Fatal("poll with correct MAC should unlock")
	}

	unlocked, _ := u.status()
	if !unlocked {
		t.Fatal("status should report unlocked after a successful poll")
	}
}

func TestUnlockWrongResponseStaysLocked(t *testing.T) {
	key := []byte("keyboard-secret")
	u := newUnlockState(key)

	if _, err := u.start(); err != nil {
		t.Fatal(err)
	}

	wrong := make([]byte, unlockDigestSize)
	if unlocked := u.poll(wrong); unlocked {
		t.Fatal("poll with wrong response should not unlock")
	}
}

func TestUnlockPollShortResponseDoesNotPanic(t *testing.T) {
	u := newUnlockState([]byte("secret"))
	if _, err := u.start(); err != nil {
		t.Fatal(err)
	}
	if unlocked := u.poll([]byte{1, 2, 3}); unlocked {
		t.Fatal("short response should never unlock")
	}
}

func TestUnlockLockRearmsGate(t *testing.T) {
	key := []byte("secret")
	u := newUnlockState(key)

	challenge, err := u.start()
	if err != nil {
		t.Fatal(err)
	}
	mac, err := macFor(key, challenge[:])
	if err != nil {
		t.Fatal(err)
	}
	if unlocked := u.poll(mac[:unlockDigestSize]); !unlocked {
		t.Fatal("expected unlock")
	}

	u.lock()
	unlocked, _ := u.status()
	if unlocked {
		t.Fatal("lock should re-arm the gate")
	}

	// The old challenge/response no longer applies: poll without a fresh
	// start must not unlock.
	if unlocked := u.poll(mac[:unlockDigestSize]); unlocked {
		t.Fatal("stale response should not unlock after lock")
	}
}
