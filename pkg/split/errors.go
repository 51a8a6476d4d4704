// SPDX-License-Identifier: BSD-3-Clause

package split

import "errors"

var (
	// ErrFrameTooLarge indicates an encoded frame exceeds SplitMessageMaxSize.
	ErrFrameTooLarge = errors.New("split: frame exceeds SPLIT_MESSAGE_MAX_SIZE")
	// ErrMalformedFrame indicates a frame failed to decode; the caller must
	// drop it and never mutate state from a partial packet.
	ErrMalformedFrame = errors.New("split: malformed frame")
	// ErrLinkClosed indicates a read/write was attempted on a closed link.
	ErrLinkClosed = errors.New("split: link closed")
	// ErrUnknownUserKind indicates a User packet's kind does not match the
	// SplitEventKind of the Forwardable type it is decoded into; the packet
	// is dropped.
	ErrUnknownUserKind = errors.New("split: unknown user event kind")
)
