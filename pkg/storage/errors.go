// SPDX-License-Identifier: BSD-3-Clause

package storage

import "errors"

var (
	// ErrUnknownRecordKind identifies a record kind that doesn't match any
	// known bucket. No function in this package returns it.
	ErrUnknownRecordKind = errors.New("storage: unknown record kind")
	// ErrRecordNotFound identifies a key with no stored value. No function
	// in this package returns it: Load leaves missing records at their zero
	// value.
	ErrRecordNotFound = errors.New("storage: record not found")
	// ErrWriteChannelClosed identifies a write submitted after Close. No
	// function in this package returns it: Submit has no error result.
	ErrWriteChannelClosed = errors.New("storage: write channel closed")
	// ErrMalformedRecord is returned decoding a value whose length doesn't
	// match its record kind's fixed encoding.
	ErrMalformedRecord = errors.New("storage: malformed record value")
)
