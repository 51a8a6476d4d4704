// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gpio

import (
	"context"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// optionFunc adapts a plain function to the Option interface, the same
// pattern as the WithXxx option constructors in config.go.
type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// AsInput returns an Option that configures a line as an input.
func AsInput() Option {
	return WithDirection(DirectionInput)
}

// AsOutput returns an Option that configures a line as an output with a
// zero initial value.
func AsOutput() Option {
	return WithDirection(DirectionOutput)
}

// AsOutputValue returns an Option that configures a line as an output with
// the given initial value.
func AsOutputValue(value int) Option {
	return optionFunc(func(c *Config) {
		WithDirection(DirectionOutput).apply(c)
		WithInitialValue(value).apply(c)
	})
}

// EdgeType identifies which transition produced an Event.
type EdgeType int

const (
	// EdgeTypeRising marks a low-to-high transition.
	EdgeTypeRising EdgeType = iota
	// EdgeTypeFalling marks a high-to-low transition.
	EdgeTypeFalling
)

// Event is a single edge transition reported for a line requested with edge
// detection, e.g. a rotary encoder phase changing or a matrix row firing.
type Event struct {
	Offset    int
	Timestamp time.Duration
	Type      EdgeType
}

// Line is a requested GPIO line together with the configuration it was
// requested with. The higher-level helpers in this package (Blink, Toggle,
// LineMonitor, LineState, IndicatorHelper) all operate on *Line rather than
// the raw gpiocdev handle, so callers never see the underlying library type.
type Line struct {
	raw    *gpiocdev.Line
	config LineConfig
	events chan Event
}

func wrapLine(raw *gpiocdev.Line, config LineConfig, events chan Event) *Line {
	return &Line{raw: raw, config: config, events: events}
}

// SetValue sets the line to the given value (0 or 1).
func (l *Line) SetValue(value int) error {
	if err := l.raw.SetValue(value); err != nil {
		return fmt.Errorf("%w: failed to set line value: %w", ErrOperationFailed, err)
	}
	return nil
}

// Value reads the current line value.
func (l *Line) Value() (int, error) {
	v, err := l.raw.Value()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read line value: %w", ErrOperationFailed, err)
	}
	return v, nil
}

// GetValue is Value under the name the line-state and indicator helpers use.
func (l *Line) GetValue() (int, error) {
	return l.Value()
}

// Close releases the underlying line and, for a line with edge detection,
// closes its event channel.
func (l *Line) Close() error {
	if l.events != nil {
		close(l.events)
	}
	return l.raw.Close()
}

// Toggle sets the line high, waits for duration, then sets it low.
func (l *Line) Toggle(duration time.Duration) error {
	return l.ToggleCtx(context.Background(), duration)
}

// ToggleCtx is Toggle with cancellation support during the hold period.
func (l *Line) ToggleCtx(ctx context.Context, duration time.Duration) error {
	if err := l.SetValue(1); err != nil {
		return err
	}
	select {
	case <-time.After(duration):
	case <-ctx.Done():
		_ = l.SetValue(0)
		return ctx.Err()
	}
	return l.SetValue(0)
}

// Events returns the channel edge events are delivered on. Returns nil for a
// line that was not requested with edge detection.
func (l *Line) Events() <-chan Event {
	return l.events
}

// lineConfigToGpiocdevOptions translates an effective LineConfig into the
// gpiocdev request options needed to realize it.
func lineConfigToGpiocdevOptions(lc LineConfig) []gpiocdev.LineReqOption {
	var out []gpiocdev.LineReqOption

	if lc.Consumer != "" {
		out = append(out, gpiocdev.WithConsumer(lc.Consumer))
	}
	if lc.ActiveState == ActiveLow {
		out = append(out, gpiocdev.AsActiveLow)
	}

	switch lc.Bias {
	case BiasPullUp:
		out = append(out, gpiocdev.WithPullUp)
	case BiasPullDown:
		out = append(out, gpiocdev.WithPullDown)
	case BiasDisabled:
		out = append(out, gpiocdev.WithBiasDisabled)
	}

	if lc.Direction == DirectionOutput {
		out = append(out, gpiocdev.AsOutput(lc.InitialValue))
		switch lc.Drive {
		case DriveOpenDrain:
			out = append(out, gpiocdev.AsOpenDrain)
		case DriveOpenSource:
			out = append(out, gpiocdev.AsOpenSource)
		}
		return out
	}

	out = append(out, gpiocdev.AsInput)
	if lc.DebouncePeriod > 0 {
		out = append(out, gpiocdev.WithDebounce(lc.DebouncePeriod))
	}
	return out
}

// convertOptions merges the supplied Options onto package defaults and
// returns the equivalent gpiocdev request options. Edge detection is wired
// separately by requestLineWrapped, which needs the event channel in hand
// before the handler option can be built.
func convertOptions(opts []Option) []gpiocdev.LineReqOption {
	cfg := NewConfig(opts...)
	return lineConfigToGpiocdevOptions(cfg.DefaultConfig)
}

// requestLineWrapped requests a line and wraps it as a *Line, wiring an edge
// event handler when the effective configuration asks for one.
func requestLineWrapped(chip string, offset int, gpiocdevOpts []gpiocdev.LineReqOption, lc LineConfig) (*Line, error) {
	var events chan Event
	reqOpts := gpiocdevOpts

	if lc.Edge != EdgeNone {
		bufSize := lc.EventBufferSize
		if bufSize <= 0 {
			bufSize = 16
		}
		events = make(chan Event, bufSize)

		switch lc.Edge {
		case EdgeRising:
			reqOpts = append(reqOpts, gpiocdev.WithRisingEdge)
		case EdgeFalling:
			reqOpts = append(reqOpts, gpiocdev.WithFallingEdge)
		case EdgeBoth:
			reqOpts = append(reqOpts, gpiocdev.WithBothEdges)
		}
		reqOpts = append(reqOpts, gpiocdev.WithEventHandler(eventHandler(events)))
	}

	raw, err := gpiocdev.RequestLine(chip, offset, reqOpts...)
	if err != nil {
		return nil, err
	}
	return wrapLine(raw, lc, events), nil
}

// eventHandler adapts gpiocdev's callback-style edge notifications onto a
// buffered channel, dropping events on backpressure rather than blocking the
// kernel's notification goroutine.
func eventHandler(events chan Event) func(gpiocdev.LineEvent) {
	return func(evt gpiocdev.LineEvent) {
		e := Event{Offset: evt.Offset, Timestamp: evt.Timestamp}
		if evt.Type == gpiocdev.LineEventFallingEdge {
			e.Type = EdgeTypeFalling
		}
		select {
		case events <- e:
		default:
		}
	}
}
