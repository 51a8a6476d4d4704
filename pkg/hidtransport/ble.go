// SPDX-License-Identifier: BSD-3-Clause

package hidtransport

import (
	"context"
	"fmt"

	"github.com/rmkfw/rmk/pkg/blegatt"
	"github.com/rmkfw/rmk/pkg/hidreport"
)

// BLEWriter writes reports to the four HID-service (0x1812) GATT
// characteristics a blegatt.Peripheral has registered, one per report
// class.
type BLEWriter struct {
	keyboard, mouse, media, system blegatt.Characteristic
}

// NewBLEWriter wraps the already-registered HID report characteristics.
func NewBLEWriter(keyboard, mouse, media, system blegatt.Characteristic) *BLEWriter {
	return &BLEWriter{keyboard: keyboard, mouse: mouse, media: media, system: system}
}

// Name implements Writer.
func (w *BLEWriter) Name() string { return "ble" }

// WriteReport implements Writer. A notify with no subscribed central
// (ErrNotConnected from blegatt) is reported back as ErrDisconnected so
// RunnableHidWriter's drop-and-log policy applies uniformly across
// transports.
func (w *BLEWriter) WriteReport(ctx context.Context, r hidreport.Report) error {
	var (
		c       blegatt.Characteristic
		payload []byte
	)
	switch r.Kind {
	case hidreport.ReportKeyboard:
		c = w.keyboard
		payload = []byte{
			r.Keyboard.Modifier, r.Keyboard.Reserved,
			r.Keyboard.Keys[0], r.Keyboard.Keys[1], r.Keyboard.Keys[2],
			r.Keyboard.Keys[3], r.Keyboard.Keys[4], r.Keyboard.Keys[5],
		}
	case hidreport.ReportMouse:
		c = w.mouse
		payload = []byte{r.Mouse.Buttons, byte(r.Mouse.X), byte(r.Mouse.Y), byte(r.Mouse.Wheel), byte(r.Mouse.Pan)}
	case hidreport.ReportMedia:
		c = w.media
		payload = []byte{byte(r.Media.UsageID), byte(r.Media.UsageID >> 8)}
	case hidreport.ReportSystem:
		c = w.system
		payload = []byte{r.System.UsageID}
	default:
		return fmt.Errorf("hidtransport: unknown report kind %d", r.Kind)
	}
	if c == nil {
		return ErrDisconnected
	}
	if err := c.Notify(payload); err != nil {
		return ErrDisconnected
	}
	return nil
}
