// SPDX-License-Identifier: BSD-3-Clause

package split

import (
	"context"
	"encoding/json"
)

// Forwardable is implemented by any event type that can cross a split link
// as an opaque User packet. SplitEventKind must be a stable, unique 16-bit
// tag per type.
type Forwardable interface {
	SplitEventKind() uint16
}

// EncodeUserPacket JSON-encodes v into a UserPacket tagged with its
// SplitEventKind. JSON (not the split frame's own tight binary encoding)
// is used for the inner payload since forwarded events are
// application-defined and arbitrarily shaped, unlike the fixed Frame
// variants; UserPacketDataSize bounds how large one can be.
func EncodeUserPacket[E Forwardable](v E) (UserPacket, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return UserPacket{}, err
	}
	if len(data) > UserPacketDataSize {
		return UserPacket{}, ErrFrameTooLarge
	}
	var p UserPacket
	p.Kind = v.SplitEventKind()
	p.Len = uint8(len(data))
	copy(p.Data[:], data)
	return p, nil
}

// DecodeUserPacket decodes p into a value of type E, returning
// ErrUnknownUserKind if p.Kind doesn't match E's SplitEventKind.
func DecodeUserPacket[E Forwardable](p UserPacket) (E, error) {
	var v E
	if p.Kind != v.SplitEventKind() {
		return v, ErrUnknownUserKind
	}
	if err := json.Unmarshal(p.Data[:p.Len], &v); err != nil {
		return v, err
	}
	return v, nil
}

// MergedSubscriber merges a local and a remote source of the same
// Forwardable event type, preferring a ready local event over a ready
// remote one whenever both are available at the same Next call, per
// preferring local when both are ready.
type MergedSubscriber[E Forwardable] struct {
	local  <-chan E
	remote <-chan E
}

// NewMergedSubscriber builds a split-aware subscriber over local and remote
// event channels.
func NewMergedSubscriber[E Forwardable](local, remote <-chan E) *MergedSubscriber[E] {
	return &MergedSubscriber[E]{local: local, remote: remote}
}

// Next blocks until a local or remote event is available, preferring
// local when both are simultaneously ready.
func (m *MergedSubscriber[E]) Next(ctx context.Context) (E, error) {
	var zero E
	// Non-blocking local-priority check before falling into select, since
	// Go's select among ready cases picks pseudo-randomly rather than in
	// source order.
	select {
	case v := <-m.local:
		return v, nil
	default:
	}
	select {
	case v := <-m.local:
		return v, nil
	case v := <-m.remote:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
