// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package hidtransport

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rmkfw/rmk/pkg/hidreport"
)

// USBWriter writes reports to a composite USB HID gadget's device files:
// a dedicated endpoint for the boot-compatible keyboard report, and one
// shared endpoint for mouse/media/system reports distinguished by a
// leading report-ID byte.
type USBWriter struct {
	keyboardDev string
	sharedDev   string
	timeout     time.Duration
}

// Report IDs on the shared mouse/media/system endpoint, matching the report
// descriptors in pkg/hidreport.
const (
	reportIDMouse  = hidreport.ReportIDMouse
	reportIDMedia  = hidreport.ReportIDMedia
	reportIDSystem = hidreport.ReportIDSystem
)

// NewUSBWriter opens against the ConfigFS HID gadget device files created
// by the gadget assembly step (left to board bring-up, out of scope here);
// keyboardDev and sharedDev are e.g. /dev/hidg0 and /dev/hidg1.
func NewUSBWriter(keyboardDev, sharedDev string) *USBWriter {
	return &USBWriter{keyboardDev: keyboardDev, sharedDev: sharedDev, timeout: 10 * time.Millisecond}
}

// Name implements Writer.
func (w *USBWriter) Name() string { return "usb" }

// WriteReport implements Writer.
func (w *USBWriter) WriteReport(ctx context.Context, r hidreport.Report) error {
	switch r.Kind {
	case hidreport.ReportKeyboard:
		return writeHIDFile(w.keyboardDev, w.timeout, []byte{
			r.Keyboard.Modifier, r.Keyboard.Reserved,
			r.Keyboard.Keys[0], r.Keyboard.Keys[1], r.Keyboard.Keys[2],
			r.Keyboard.Keys[3], r.Keyboard.Keys[4], r.Keyboard.Keys[5],
		})
	case hidreport.ReportMouse:
		return writeHIDFile(w.sharedDev, w.timeout, []byte{
			reportIDMouse, r.Mouse.Buttons,
			byte(r.Mouse.X), byte(r.Mouse.Y), byte(r.Mouse.Wheel), byte(r.Mouse.Pan),
		})
	case hidreport.ReportMedia:
		return writeHIDFile(w.sharedDev, w.timeout, []byte{
			reportIDMedia, byte(r.Media.UsageID), byte(r.Media.UsageID >> 8),
		})
	case hidreport.ReportSystem:
		return writeHIDFile(w.sharedDev, w.timeout, []byte{reportIDSystem, r.System.UsageID})
	default:
		return fmt.Errorf("hidtransport: unknown report kind %d", r.Kind)
	}
}

// writeHIDFile writes one report to a HID gadget device file with a short
// deadline, mirroring the corpus's pkg/usb writeHIDReport helper.
func writeHIDFile(path string, timeout time.Duration, payload []byte) error {
	if path == "" {
		return ErrDeviceNotFound
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrDeviceNotFound
		}
		return ErrDisconnected
	}
	defer f.Close()

	if err := f.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("hidtransport: set write deadline: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		if os.IsTimeout(err) {
			return ErrWriteTimeout
		}
		return ErrEndpointBusy
	}
	return nil
}
