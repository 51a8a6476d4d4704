// SPDX-License-Identifier: BSD-3-Clause

// Package batterysvc polls a battery level reader on a fixed interval and
// publishes the result onto the battery-level bus subject, optionally also
// pushing it out as a BLE Battery Service (0x180F) notification.
package batterysvc
