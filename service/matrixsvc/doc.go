// SPDX-License-Identifier: BSD-3-Clause

// Package matrixsvc wraps pkg/matrix.Matrix as a service.Service task,
// publishing every debounced key transition onto the key-event bus until
// canceled.
package matrixsvc
