// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package gpio provides a high-level abstraction for GPIO operations on a
// keyboard's host controller.
//
// This package wraps the low-level gpio-cdev functionality and provides a
// more convenient interface for the operations a keyboard needs directly from
// GPIO lines: matrix row/column scanning, rotary encoder quadrature reading,
// and lock/status LED indicators.
//
// # Key Concepts
//
// GPIO Chip: A GPIO controller that manages a collection of GPIO lines. A
// keyboard controller typically exposes a single chip (e.g. /dev/gpiochip0).
//
// GPIO Line: An individual GPIO pin within a chip. Lines can be configured as
// inputs or outputs and may have additional properties like pull-up/pull-down
// resistors.
//
// Line Configuration: Each GPIO line can be configured with specific
// properties such as direction (input/output), initial value, bias
// (pull-up/pull-down), and edge detection.
//
// # Basic Usage
//
// The simplest way to use this package is through the package-level request
// functions, which return a *Line:
//
//	// Configure a matrix column as an output
//	col0, err := gpio.RequestLine("gpiochip0", "matrix-col-0",
//		gpio.WithDirection(gpio.DirectionOutput),
//		gpio.WithInitialValue(0),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer col0.Close()
//
//	// Drive the column high to strobe the row lines
//	if err := col0.SetValue(1); err != nil {
//		log.Fatal(err)
//	}
//
// # Advanced Usage
//
// Several lines can be requested by offset in one call; the result is the
// underlying gpiocdev multi-line handle rather than a *Line:
//
//	rows, err := gpio.RequestLines("gpiochip0", []int{4, 5, 6},
//		gpio.AsInput(),
//		gpio.WithBias(gpio.BiasPullDown),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer rows.Close()
//
// Lines requested one at a time can be grouped and driven together:
//
//	group := gpio.NewLineGroup()
//	group.Add("matrix-col-0", col0)
//	group.Add("caps-lock-led", capsLock)
//	err = group.SetValues(map[string]int{"matrix-col-0": 1, "caps-lock-led": 0})
//
// # Matrix Scanning Pattern
//
// A key matrix scanner drives one column line high at a time and samples all
// row lines, repeating for every column on a fixed scan interval:
//
//	for _, col := range cols {
//		col.SetValue(1)
//		for _, row := range rows {
//			v, _ := row.GetValue()
//			_ = v // feed into the debounce state machine
//		}
//		col.SetValue(0)
//	}
//
// Indicator LEDs:
//
//	// Turn on the caps-lock LED
//	capsLock.SetValue(1)
//
//	// Blink pattern, e.g. BLE pairing or low battery
//	for i := 0; i < 5; i++ {
//		statusLed.SetValue(1)
//		time.Sleep(100 * time.Millisecond)
//		statusLed.SetValue(0)
//		time.Sleep(100 * time.Millisecond)
//	}
//
// # Event Monitoring
//
// The package supports edge detection for monitoring GPIO state changes, used
// by the rotary encoder reader to react to quadrature transitions:
//
//	encA, err := gpio.RequestLine("gpiochip0", "encoder-a",
//		gpio.WithDirection(gpio.DirectionInput),
//		gpio.WithEdge(gpio.EdgeBoth),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	events := encA.Events()
//	for event := range events {
//		fmt.Printf("encoder A edge at %v\n", event.Timestamp)
//	}
//
// # Error Handling
//
// The package provides specific error types for different failure scenarios:
//
//	line, err := gpio.RequestLine("gpiochip0", "non-existent-line")
//	if err != nil {
//		switch {
//		case errors.Is(err, gpio.ErrChipNotFound):
//			log.Fatal("GPIO chip not available")
//		case errors.Is(err, gpio.ErrLineNotFound):
//			log.Fatal("GPIO line not found")
//		case errors.Is(err, gpio.ErrPermissionDenied):
//			log.Fatal("Insufficient permissions for GPIO access")
//		default:
//			log.Fatalf("Unexpected error: %v", err)
//		}
//	}
//
// # Resource Management
//
// Always ensure proper cleanup of GPIO resources:
//
//	line, err := gpio.RequestLine(...)
//	if err != nil {
//		return err
//	}
//	defer line.Close()
//
//	// Or close every line of a group at once
//	defer group.Close()
//
// # Thread Safety
//
// A LineGroup guards its set of lines with a mutex and can be used
// concurrently from multiple goroutines. A Line adds no locking of its own.
//
// # Platform Considerations
//
// This package is designed for Linux systems with GPIO character device
// support (/dev/gpiochipN). Ensure your kernel has CONFIG_GPIO_CDEV enabled
// and that your user has appropriate permissions to access GPIO devices.
package gpio
