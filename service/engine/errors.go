// SPDX-License-Identifier: BSD-3-Clause

package engine

import "errors"

var (
	// Configuration errors
	// ErrNameEmpty indicates that the engine name cannot be empty.
	ErrNameEmpty = errors.New("engine name cannot be empty")
	// ErrEventBusNil indicates that no event bus was configured.
	ErrEventBusNil = errors.New("event bus not configured: provide WithEventBus")

	// Process management errors
	// ErrAddProcess indicates that adding a service to supervision failed.
	ErrAddProcess = errors.New("failed to add process to supervision tree")
	// ErrAddExtraService indicates that adding an extra service failed.
	ErrAddExtraService = errors.New("failed to add extra service to supervision tree")

	// Runtime errors
	// ErrPanicked indicates that Run recovered from a panic.
	ErrPanicked = errors.New("engine run panicked")
)
