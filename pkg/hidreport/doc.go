// SPDX-License-Identifier: BSD-3-Clause

// Package hidreport defines the HID report sum type the keyboard engine
// emits and the wire descriptors transports serialize them with. Adapted
// from the report structs and raw descriptor bytes in the corpus's
// pkg/usb/hid.go, generalized from a single fixed keyboard+mouse gadget
// into a tagged Report covering every report class the engine produces:
// keyboard (6-key rollover), mouse, consumer (media), and system control.
package hidreport
