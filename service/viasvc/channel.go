// SPDX-License-Identifier: BSD-3-Clause

package viasvc

import "context"

// Channel is one duplex transport carrying 32-byte VIA/Vial reports: a USB
// hidraw device file, a BLE GATT characteristic, or anything else that can
// hand this service a request and accept a response.
type Channel interface {
	// Name identifies the channel for logging.
	Name() string
	// Run blocks, feeding every incoming report to handle and writing back
	// whatever it returns, until ctx is canceled or the channel fails.
	Run(ctx context.Context, handle func([]byte) ([]byte, error)) error
}
