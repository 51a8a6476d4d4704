// SPDX-License-Identifier: BSD-3-Clause

package eventbus

import "errors"

var (
	// ErrServerCreationFailed indicates the embedded NATS server could not
	// be constructed.
	ErrServerCreationFailed = errors.New("eventbus: failed to create NATS server")
	// ErrServerTimeout indicates the server did not become ready for
	// connections within the configured startup timeout.
	ErrServerTimeout = errors.New("eventbus: server not ready within timeout")
	// ErrConnectionNotAvailable indicates the ConnProvider was obtained
	// before the embedded server was constructed.
	ErrConnectionNotAvailable = errors.New("eventbus: connection not available")
	// ErrInProcessConnFailed indicates the embedded server rejected an
	// in-process connection attempt.
	ErrInProcessConnFailed = errors.New("eventbus: in-process connection failed")
)
