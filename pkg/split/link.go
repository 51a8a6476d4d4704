// SPDX-License-Identifier: BSD-3-Clause

package split

import "context"

// Link is a bidirectional split transport: ReadFrame blocks for the next
// inbound frame, WriteFrame sends one outbound frame. Implementations are
// UART (pkg/split/link_uart.go) or BLE (pkg/split/link_ble.go).
type Link interface {
	ReadFrame(ctx context.Context) (Frame, error)
	WriteFrame(ctx context.Context, f Frame) error
	Close() error
}
