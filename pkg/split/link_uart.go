// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package split

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// UARTBaud is the fixed split-link baud rate.
const UARTBaud = 115200

// UARTLink frames split messages over a half-duplex UART as
// [len: u8][payload: len bytes]. The
// device itself (e.g. /dev/ttyS1) is assumed already configured for
// inverted idle-high framing at the UART-controller level; this link only
// owns baud/raw-mode termios settings and the length-prefix framing.
type UARTLink struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenUARTLink opens and configures path as a split link.
func OpenUARTLink(path string) (*UARTLink, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("split: open %s: %w", path, err)
	}
	if err := configureRawTermios(f); err != nil {
		f.Close()
		return nil, err
	}
	return &UARTLink{f: f, path: path}, nil
}

func configureRawTermios(f *os.File) error {
	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("split: get termios: %w", err)
	}
	unix.CfmakeRaw(t)
	if err := unix.CfSetSpeed(t, UARTBaud); err != nil {
		return fmt.Errorf("split: set speed: %w", err)
	}
	t.Cflag |= unix.CLOCAL | unix.CREAD
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("split: set termios: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and decodes it.
func (l *UARTLink) ReadFrame(ctx context.Context) (Frame, error) {
	lenBuf := make([]byte, 1)
	if _, err := readFull(ctx, l.f, lenBuf); err != nil {
		return Frame{}, err
	}
	payload := make([]byte, lenBuf[0])
	if len(payload) > 0 {
		if _, err := readFull(ctx, l.f, payload); err != nil {
			return Frame{}, err
		}
	}
	return Decode(payload)
}

// WriteFrame encodes f and writes it length-prefixed.
func (l *UARTLink) WriteFrame(ctx context.Context, f Frame) error {
	buf, err := Encode(f)
	if err != nil {
		return err
	}
	if len(buf) > 255 {
		return ErrFrameTooLarge
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	frame := append([]byte{byte(len(buf))}, buf...)
	_, err = l.f.Write(frame)
	return err
}

// Close releases the underlying device file.
func (l *UARTLink) Close() error { return l.f.Close() }

// readFull reads len(buf) bytes, honoring ctx cancellation between reads by
// giving up after the context is done (the file itself has no cancel
// hook, so cancellation is best-effort between syscalls).
func readFull(ctx context.Context, f *os.File, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}
		m, err := f.Read(buf[n:])
		if err != nil {
			return n, err
		}
		n += m
	}
	return n, nil
}
