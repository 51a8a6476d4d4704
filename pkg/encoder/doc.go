// SPDX-License-Identifier: BSD-3-Clause

// Package encoder decodes a rotary encoder's quadrature A/B phase lines into
// clockwise/counter-clockwise detent ticks.
package encoder
