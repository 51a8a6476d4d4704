// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"log/slog"
	"time"

	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/service"
	"github.com/rmkfw/rmk/service/eventbus"
)

type config struct {
	name    string
	logger  *slog.Logger
	timeout time.Duration
	// The event bus needs special handling: every other service dials it
	// through its returned ConnProvider rather than through reflection.
	bus *eventbus.EventBus

	// Everything of type service.Service is added to the supervision tree
	// automatically. Board-dependent services (split, LEDs, battery) are
	// left nil when a board has no use for them.
	Matrixsvc   service.Service
	Encodersvc  service.Service
	Keyboardsvc service.Service
	Hidsvc      service.Service
	Storagesvc  service.Service
	Viasvc      service.Service
	Splitsvc    service.Service
	Ledctrlsvc  service.Service
	Batterysvc  service.Service

	extraServices []service.Service
}

// Option configures the engine.
type Option interface {
	apply(*config)
}

type nameOption struct{ name string }

func (o *nameOption) apply(c *config) { c.name = o.name }

// WithName sets the name the engine reports as a service.Service.
func WithName(name string) Option {
	return &nameOption{name: name}
}

type loggerOption struct{ logger *slog.Logger }

func (o *loggerOption) apply(c *config) { c.logger = o.logger }

// WithLogger sets a custom structured logger. Defaults to the process-wide
// global logger.
func WithLogger(logger *slog.Logger) Option {
	return &loggerOption{logger: logger}
}

type timeoutOption struct{ timeout time.Duration }

func (o *timeoutOption) apply(c *config) { c.timeout = o.timeout }

// WithTimeout bounds how long a supervised service is given to shut down
// before the supervisor considers it stuck.
func WithTimeout(timeout time.Duration) Option {
	return &timeoutOption{timeout: timeout}
}

type eventBusOption struct{ bus *eventbus.EventBus }

func (o *eventBusOption) apply(c *config) { c.bus = o.bus }

// WithEventBus configures the embedded NATS event bus every other service
// connects to. Required: Run returns ErrEventBusNil without one.
func WithEventBus(opts ...eventbus.Option) Option {
	return &eventBusOption{bus: eventbus.New(opts...)}
}

type matrixsvcOption struct{ svc service.Service }

func (o *matrixsvcOption) apply(c *config) { c.Matrixsvc = o.svc }

// WithMatrixsvc attaches an already-constructed matrix-scanning service.
func WithMatrixsvc(svc service.Service) Option {
	return &matrixsvcOption{svc: svc}
}

type encodersvcOption struct{ svc service.Service }

func (o *encodersvcOption) apply(c *config) { c.Encodersvc = o.svc }

// WithEncodersvc attaches an already-constructed rotary-encoder polling
// service. Omit on boards with no encoders.
func WithEncodersvc(svc service.Service) Option {
	return &encodersvcOption{svc: svc}
}

type keyboardsvcOption struct{ svc service.Service }

func (o *keyboardsvcOption) apply(c *config) { c.Keyboardsvc = o.svc }

// WithKeyboardsvc attaches the key-action engine service.
func WithKeyboardsvc(svc service.Service) Option {
	return &keyboardsvcOption{svc: svc}
}

type hidsvcOption struct{ svc service.Service }

func (o *hidsvcOption) apply(c *config) { c.Hidsvc = o.svc }

// WithHidsvc attaches the HID report delivery service.
func WithHidsvc(svc service.Service) Option {
	return &hidsvcOption{svc: svc}
}

type storagesvcOption struct{ svc service.Service }

func (o *storagesvcOption) apply(c *config) { c.Storagesvc = o.svc }

// WithStoragesvc attaches the persistent keymap storage service.
func WithStoragesvc(svc service.Service) Option {
	return &storagesvcOption{svc: svc}
}

type viasvcOption struct{ svc service.Service }

func (o *viasvcOption) apply(c *config) { c.Viasvc = o.svc }

// WithViasvc attaches the VIA protocol service. Omit on boards with no VIA
// host channel.
func WithViasvc(svc service.Service) Option {
	return &viasvcOption{svc: svc}
}

type splitsvcOption struct{ svc service.Service }

func (o *splitsvcOption) apply(c *config) { c.Splitsvc = o.svc }

// WithSplitsvc attaches a split-keyboard central or peripheral role. Omit on
// unibody boards.
func WithSplitsvc(svc service.Service) Option {
	return &splitsvcOption{svc: svc}
}

type ledctrlsvcOption struct{ svc service.Service }

func (o *ledctrlsvcOption) apply(c *config) { c.Ledctrlsvc = o.svc }

// WithLedctrlsvc attaches the LED indicator service. Omit on boards with no
// status LEDs.
func WithLedctrlsvc(svc service.Service) Option {
	return &ledctrlsvcOption{svc: svc}
}

type batterysvcOption struct{ svc service.Service }

func (o *batterysvcOption) apply(c *config) { c.Batterysvc = o.svc }

// WithBatterysvc attaches the battery polling service. Omit on USB-only
// boards with no fuel gauge.
func WithBatterysvc(svc service.Service) Option {
	return &batterysvcOption{svc: svc}
}

type extraServicesOption struct{ services []service.Service }

func (o *extraServicesOption) apply(c *config) { c.extraServices = o.services }

// WithExtraServices adds additional services alongside the standard set,
// useful for board-specific services that have no dedicated With option.
func WithExtraServices(services ...service.Service) Option {
	return &extraServicesOption{services: services}
}

func defaultConfig() *config {
	return &config{
		name:    "engine",
		logger:  log.NewDefaultLogger(),
		timeout: 10 * time.Second,
	}
}
