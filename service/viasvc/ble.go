// SPDX-License-Identifier: BSD-3-Clause

package viasvc

import (
	"context"

	"github.com/rmkfw/rmk/pkg/blegatt"
)

// BLEChannel adapts a blegatt.Characteristic's callback-driven write/notify
// pair onto the blocking Channel shape: OnWrite pushes each host write onto
// an internal queue, Run drains it and pushes the response back through
// Notify.
type BLEChannel struct {
	char  blegatt.Characteristic
	queue chan []byte
}

// NewBLEChannel wraps a characteristic already registered against
// blegatt.ServiceVial by the caller.
func NewBLEChannel(char blegatt.Characteristic) *BLEChannel {
	return &BLEChannel{char: char, queue: make(chan []byte, 4)}
}

// Name implements Channel.
func (c *BLEChannel) Name() string { return "ble" }

// Run installs the write callback and drains the queue until ctx is
// canceled. A central that never subscribes to notifications still has its
// writes processed; Notify's ErrNotConnected on the resulting response is
// swallowed the same way a dropped HID report is elsewhere in this
// repository.
func (c *BLEChannel) Run(ctx context.Context, handle func([]byte) ([]byte, error)) error {
	c.char.OnWrite(func(value []byte) {
		report := make([]byte, len(value))
		copy(report, value)
		select {
		case c.queue <- report:
		default:
			// central is writing faster than the unlock/CRUD handler can
			// drain; drop rather than block the GATT write callback.
		}
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case report := <-c.queue:
			resp, err := handle(report)
			if err != nil {
				continue
			}
			_ = c.char.Notify(resp)
		}
	}
}
