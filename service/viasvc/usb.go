// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package viasvc

import (
	"context"
	"fmt"
	"os"

	"github.com/rmkfw/rmk/pkg/via"
)

// USBChannel reads and writes 32-byte reports against a raw HID gadget
// device file, e.g. /dev/hidg2 on a ConfigFS-assembled composite gadget
// with a dedicated VIA interface (vendor-defined, no boot protocol).
type USBChannel struct {
	dev string
}

// NewUSBChannel opens against a hidraw-style device file that supports
// blocking Read/Write of fixed-size reports. Gadget assembly is left to
// board bring-up, out of scope here.
func NewUSBChannel(dev string) *USBChannel {
	return &USBChannel{dev: dev}
}

// Name implements Channel.
func (c *USBChannel) Name() string { return "usb" }

// Run opens the device file read-write and loops: block for one 32-byte
// request, hand it to handle, write back the response. A read or write
// error (device unplugged, gadget torn down) ends the loop; the caller is
// expected to retry Run after a backoff.
func (c *USBChannel) Run(ctx context.Context, handle func([]byte) ([]byte, error)) error {
	f, err := os.OpenFile(c.dev, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("viasvc: open %s: %w", c.dev, err)
	}
	defer f.Close()

	go func() {
		<-ctx.Done()
		f.Close()
	}()

	buf := make([]byte, via.ReportSize)
	for {
		n, err := f.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("viasvc: read %s: %w", c.dev, err)
		}
		if n < via.ReportSize {
			continue
		}
		resp, err := handle(buf)
		if err != nil {
			continue
		}
		if _, err := f.Write(resp); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("viasvc: write %s: %w", c.dev, err)
		}
	}
}
