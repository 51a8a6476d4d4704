// SPDX-License-Identifier: BSD-3-Clause

package via

import (
	"crypto/hmac"
	"crypto/rand"
	"sync"

	"golang.org/x/crypto/blake2s"
)

// unlockDigestSize is the truncated response length that fits alongside
// the 2-byte command/subcommand prefix in a 32-byte report (2 + 16 + 14
// bytes of slack for the challenge itself on the poll round-trip).
const unlockDigestSize = 16

// unlockState is the Vial unlock challenge/response gate: a keyboard
// without a configured key is always unlocked; one with a key requires a
// VialUnlockStart/VialUnlockPoll round trip keyed on a per-challenge BLAKE2s
// MAC before combo/fork/morse CRUD subcommands are accepted. BLAKE2s is
// keyed directly (no HMAC construction needed), unlike the SHA-256-based
// handshake this is grounded on.
type unlockState struct {
	mu        sync.Mutex
	key       []byte
	challenge []byte
	unlocked  bool
}

func newUnlockState(key []byte) *unlockState {
	return &unlockState{key: key, unlocked: len(key) == 0}
}

// status reports whether the keyboard is currently unlocked and whether an
// unlock key is configured at all.
func (u *unlockState) status() (unlocked, keyConfigured bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.unlocked, len(u.key) > 0
}

// start issues a fresh random challenge, discarding any prior one.
func (u *unlockState) start() ([unlockDigestSize]byte, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var challenge [unlockDigestSize]byte
	if _, err := rand.Read(challenge[:]); err != nil {
		return challenge, err
	}
	u.challenge = append([]byte(nil), challenge[:]...)
	return challenge, nil
}

// poll checks a host-submitted response MAC against the outstanding
// challenge, unlocking on a match. Returns the post-poll unlocked state.
func (u *unlockState) poll(response []byte) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.unlocked {
		return true
	}
	if u.challenge == nil || len(u.key) == 0 || len(response) < unlockDigestSize {
		return false
	}
	expected, err := macFor(u.key, u.challenge)
	if err != nil {
		return false
	}
	if hmac.Equal(expected[:unlockDigestSize], response[:unlockDigestSize]) {
		u.unlocked = true
		u.challenge = nil
	}
	return u.unlocked
}

// lock re-arms the gate, requiring a fresh challenge/response before the
// next CRUD subcommand.
func (u *unlockState) lock() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.unlocked = len(u.key) == 0
	u.challenge = nil
}

func macFor(key, challenge []byte) ([]byte, error) {
	h, err := blake2s.New256(key)
	if err != nil {
		return nil, err
	}
	h.Write(challenge)
	return h.Sum(nil), nil
}
