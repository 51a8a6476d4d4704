// SPDX-License-Identifier: BSD-3-Clause

// Package mouse implements the pointing-device acceleration curve:
// buttons, relative movement/wheel repeat with a linear speed ramp, and
// the fixed-point diagonal-movement compensation.
package mouse
