// SPDX-License-Identifier: BSD-3-Clause

package split

import (
	"context"
	"sync"

	"github.com/rmkfw/rmk/pkg/blegatt"
)

// BLELink frames split messages over two 255-byte GATT characteristics:
// one notify (central-to-peripheral) and one write-without-response
// (peripheral-to-central). Each characteristic write/notify
// carries exactly one frame — no length prefix needed since BLE already
// delivers whole ATT payloads.
type BLELink struct {
	notifyOut blegatt.Characteristic // this side's outbound channel
	mu        sync.Mutex
	inbound   chan Frame
}

// NewBLELink wires outbound (a Characteristic this side notifies/writes on)
// against inbound (a Characteristic this side receives writes/notifies on).
func NewBLELink(outbound, inbound blegatt.Characteristic) *BLELink {
	l := &BLELink{notifyOut: outbound, inbound: make(chan Frame, 16)}
	inbound.OnWrite(func(value []byte) {
		f, err := Decode(value)
		if err != nil {
			return // malformed frame: dropped
		}
		select {
		case l.inbound <- f:
		default:
			// receiver too slow: drop the oldest queued frame rather than
			// blocking the BLE stack's write callback.
			select {
			case <-l.inbound:
			default:
			}
			l.inbound <- f
		}
	})
	return l
}

// ReadFrame returns the next decoded inbound frame.
func (l *BLELink) ReadFrame(ctx context.Context) (Frame, error) {
	select {
	case f := <-l.inbound:
		return f, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// WriteFrame notifies f on the outbound characteristic.
func (l *BLELink) WriteFrame(ctx context.Context, f Frame) error {
	buf, err := Encode(f)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.notifyOut.Notify(buf); err != nil {
		return ErrLinkClosed
	}
	return nil
}

// Close is a no-op: the underlying BLE characteristic lifecycle is owned by
// the blegatt.Peripheral, not this link.
func (l *BLELink) Close() error { return nil }
