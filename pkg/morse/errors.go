// SPDX-License-Identifier: BSD-3-Clause

package morse

import "errors"

// ErrUnknownHeldKey identifies a release or forced resolution that targets
// a position with no corresponding entry in the held buffer. The Resolver
// ignores such a release and does not return this error.
var ErrUnknownHeldKey = errors.New("morse: no held entry for position")

// ErrInvalidTransition is returned by the underlying stateless machine when
// a state transition is attempted out of order; it should never surface in
// normal operation and indicates a resolver bug if it does.
var ErrInvalidTransition = errors.New("morse: invalid held-key state transition")
