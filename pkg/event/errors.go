// SPDX-License-Identifier: BSD-3-Clause

package event

import "errors"

var (
	// ErrSubscriberCapExceeded indicates a pub/sub topic was asked for more
	// concurrent subscribers than its compile-time cap allows.
	ErrSubscriberCapExceeded = errors.New("event: subscriber cap exceeded")
	// ErrSubscriptionClosed indicates NextEvent was called on a closed
	// Subscriber.
	ErrSubscriptionClosed = errors.New("event: subscription closed")
)
