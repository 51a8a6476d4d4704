// SPDX-License-Identifier: BSD-3-Clause

package via

import "errors"

var (
	// ErrShortReport is returned when a report shorter than ReportSize
	// reaches Service.Handle.
	ErrShortReport = errors.New("via: report shorter than 32 bytes")

	// ErrLocked is returned by a Vial CRUD subcommand when the keyboard
	// has not completed the unlock challenge/response sequence.
	ErrLocked = errors.New("via: keyboard locked")

	// ErrOutOfRange is returned when a requested layer/row/col/index lies
	// outside the configured keymap or behavior table.
	ErrOutOfRange = errors.New("via: index out of range")
)
