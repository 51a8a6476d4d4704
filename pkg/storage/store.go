// SPDX-License-Identifier: BSD-3-Clause

package storage

import (
	"fmt"
	"log/slog"

	"go.etcd.io/bbolt"

	"github.com/rmkfw/rmk/pkg/combo"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/keycode"
)

// Store wraps a single bbolt database file holding every record bucket.
// It is safe for concurrent reads; writes must go through the single
// mutator goroutine that drains WriteChannel (service/storagesvc owns
// that goroutine), never directly through Store's own methods, so the
// rest of the engine can never block on a flash write.
type Store struct {
	db      *bbolt.DB
	writeCh chan any
	logger  *slog.Logger
}

// Open creates or opens the bbolt database at path and ensures every
// record bucket exists, so a boot Load never has to special-case a
// missing bucket.
func Open(path string, channelCapacity int, logger *slog.Logger) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, k := range allBuckets() {
			if _, err := tx.CreateBucketIfNotExists(k.bucket()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create buckets: %w", err)
	}
	return &Store{db: db, writeCh: make(chan any, channelCapacity), logger: logger}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error { return s.db.Close() }

// WriteChannel returns the channel Submit enqueues onto and Run drains.
func (s *Store) WriteChannel() <-chan any { return s.writeCh }

// Submit enqueues a pending write (one of the *Write types, ClearSlot, or
// Reset) without blocking the caller on the disk write itself. A full
// channel means the flash task is falling behind; the write is dropped and
// logged rather than blocking the engine,
// non-blocking guarantee.
func (s *Store) Submit(req any) {
	select {
	case s.writeCh <- req:
	default:
		if s.logger != nil {
			s.logger.Warn("storage write channel full, dropping write", "type", fmt.Sprintf("%T", req))
		}
	}
}

// Apply performs one write request against the database. Called only from
// the single mutator goroutine (service/storagesvc's Run loop).
func (s *Store) Apply(req any) error {
	switch r := req.(type) {
	case KeymapKeyWrite:
		return s.put(RecordKeymapKey, keymapKey(r.Layer, r.Row, r.Col)[:], EncodeKeyAction(r.Action))
	case EncoderWrite:
		return s.put(RecordEncoder, encoderKey(r.Layer, r.Idx)[:], EncodeEncoderAction(r.Action))
	case MacroWrite:
		return s.put(RecordMacro, singletonKey[:], r.Bytes)
	case ComboWrite:
		return s.put(RecordCombo, []byte{r.Idx}, EncodeCombo(r.Combo))
	case ForkWrite:
		return s.put(RecordFork, []byte{r.Idx}, EncodeFork(r.Fork))
	case MorseWrite:
		return s.put(RecordMorse, []byte{r.Idx}, EncodeMorse(r.Morse))
	case ActiveBleProfileWrite:
		return s.put(RecordActiveBleProfile, singletonKey[:], []byte{r.Profile})
	case ConnectionTypeWrite:
		return s.put(RecordConnectionType, singletonKey[:], []byte{r.ConnectionType})
	case ProfileInfoWrite:
		info := byte(0)
		if r.Info.Bonded {
			info |= 1
		}
		if r.Info.CCCDEnabled {
			info |= 2
		}
		return s.put(RecordProfileInfo, []byte{r.Profile}, []byte{info})
	case ClearSlot:
		return s.delete(RecordProfileInfo, []byte{r.Profile})
	case Reset:
		return s.resetAll()
	default:
		return fmt.Errorf("storage: unknown write request %T", req)
	}
}

func (s *Store) put(kind RecordKind, key, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(kind.bucket()).Put(key, value)
	})
}

func (s *Store) delete(kind RecordKind, key []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(kind.bucket()).Delete(key)
	})
}

func (s *Store) resetAll() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, k := range allBuckets() {
			if err := tx.DeleteBucket(k.bucket()); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(k.bucket()); err != nil {
				return err
			}
		}
		return nil
	})
}

// BootState is everything the engine needs loaded from flash before any
// other service starts consuming key events.
type BootState struct {
	Keymap           map[[3]byte]keycode.KeyAction
	Encoders         map[[2]byte]keycode.EncoderAction
	MacroBytes       []byte
	Combos           map[uint8]combo.Combo
	Forks            map[uint8]fork.Fork
	Morses           map[uint8]keycode.Morse
	ActiveBleProfile uint8
	ConnectionType   uint8
	ProfileInfos     map[uint8]ProfileInfo
}

// Load reads every bucket into a BootState. Run once at boot before the
// morse/keymap/macro/combo/fork tables are handed to the rest of the
// engine.
func (s *Store) Load() (*BootState, error) {
	state := &BootState{
		Keymap:       make(map[[3]byte]keycode.KeyAction),
		Encoders:     make(map[[2]byte]keycode.EncoderAction),
		Combos:       make(map[uint8]combo.Combo),
		Forks:        make(map[uint8]fork.Fork),
		Morses:       make(map[uint8]keycode.Morse),
		ProfileInfos: make(map[uint8]ProfileInfo),
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(RecordKeymapKey.bucket()).ForEach(func(k, v []byte) error {
			if len(k) != 3 {
				return fmt.Errorf("%w: keymap key len %d", ErrMalformedRecord, len(k))
			}
			ka, err := DecodeKeyAction(v)
			if err != nil {
				return err
			}
			state.Keymap[[3]byte(k)] = ka
			return nil
		}); err != nil {
			return err
		}

		if err := tx.Bucket(RecordEncoder.bucket()).ForEach(func(k, v []byte) error {
			if len(k) != 2 {
				return fmt.Errorf("%w: encoder key len %d", ErrMalformedRecord, len(k))
			}
			ea, err := DecodeEncoderAction(v)
			if err != nil {
				return err
			}
			state.Encoders[[2]byte(k)] = ea
			return nil
		}); err != nil {
			return err
		}

		if v := tx.Bucket(RecordMacro.bucket()).Get(singletonKey[:]); v != nil {
			state.MacroBytes = append([]byte(nil), v...)
		}

		if err := tx.Bucket(RecordCombo.bucket()).ForEach(func(k, v []byte) error {
			c, err := DecodeCombo(v)
			if err != nil {
				return err
			}
			state.Combos[k[0]] = c
			return nil
		}); err != nil {
			return err
		}

		if err := tx.Bucket(RecordFork.bucket()).ForEach(func(k, v []byte) error {
			f, err := DecodeFork(v)
			if err != nil {
				return err
			}
			state.Forks[k[0]] = f
			return nil
		}); err != nil {
			return err
		}

		if err := tx.Bucket(RecordMorse.bucket()).ForEach(func(k, v []byte) error {
			m, err := DecodeMorse(v)
			if err != nil {
				return err
			}
			state.Morses[k[0]] = m
			return nil
		}); err != nil {
			return err
		}

		if v := tx.Bucket(RecordActiveBleProfile.bucket()).Get(singletonKey[:]); v != nil {
			state.ActiveBleProfile = v[0]
		}
		if v := tx.Bucket(RecordConnectionType.bucket()).Get(singletonKey[:]); v != nil {
			state.ConnectionType = v[0]
		}

		return tx.Bucket(RecordProfileInfo.bucket()).ForEach(func(k, v []byte) error {
			if len(v) != 1 {
				return fmt.Errorf("%w: profile info len %d", ErrMalformedRecord, len(v))
			}
			state.ProfileInfos[k[0]] = ProfileInfo{Bonded: v[0]&1 != 0, CCCDEnabled: v[0]&2 != 0}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}
