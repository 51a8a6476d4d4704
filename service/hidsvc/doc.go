// SPDX-License-Identifier: BSD-3-Clause

// Package hidsvc runs pkg/hidtransport's Writers as a
// service.Service: it subscribes to the report event-bus subject the
// keyboard engine publishes onto and fans every report out to the active
// USB/BLE writers.
package hidsvc
