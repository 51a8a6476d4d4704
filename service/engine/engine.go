// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"context"
	"fmt"
	"reflect"

	"cirello.io/oversight/v2"
	"github.com/arunsworld/nursery"
	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/pkg/process"
	"github.com/rmkfw/rmk/service"
)

// Compile-time assertion that Engine implements service.Service.
var _ service.Service = (*Engine)(nil)

// Engine supervises every service a keyboard process runs, restarting any
// of them on crash while leaving the others undisturbed.
type Engine struct {
	config
}

// New builds an Engine from the given options. WithEventBus is required;
// Run rejects a config with no bus attached.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &Engine{config: *cfg}
}

// Name implements service.Service.
func (e *Engine) Name() string { return e.name }

// Run starts the event bus, then every configured service under
// supervision, and blocks until ctx is canceled or a fatal error occurs.
// The ipcConn parameter is accepted to satisfy service.Service but is
// unused: the engine always supplies its own bus's ConnProvider to the
// services it supervises, since it owns the bus's lifecycle.
func (e *Engine) Run(ctx context.Context, _ nats.InProcessConnProvider) (err error) {
	if e.name == "" {
		return ErrNameEmpty
	}
	if e.bus == nil {
		return ErrEventBusNil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s %w: %v", e.Name(), ErrPanicked, r)
		}
	}()

	l := e.logger

	supervisionTree := oversight.New(
		oversight.NeverHalt(),
		oversight.DefaultRestartStrategy(),
		oversight.WithLogger(log.NewOversightLogger(l)),
	)

	if err := supervisionTree.Add(
		process.New(e.bus, nil),
		oversight.Transient(),
		oversight.Timeout(e.timeout),
		e.bus.Name(),
	); err != nil {
		return fmt.Errorf("%w %s to tree: %w", ErrAddProcess, e.bus.Name(), err)
	}

	supervise := func(ctx context.Context, c chan error) {
		c <- supervisionTree.Start(ctx)
	}

	spawnProcs := func(ctx context.Context, c chan error) {
		conn := e.bus.GetConnProvider()

		// Dynamically add every service.Service-typed field to the
		// supervision tree, skipping nil ones left unconfigured for this
		// board.
		configValue := reflect.ValueOf(e.config)
		for i := range configValue.NumField() {
			field := configValue.Field(i)
			if !field.IsValid() || !field.CanInterface() {
				continue
			}
			v := field.Interface()
			if v == nil {
				continue
			}
			svc, ok := v.(service.Service)
			if !ok {
				continue
			}
			if err := supervisionTree.Add(
				process.New(svc, conn),
				oversight.Transient(),
				oversight.Timeout(e.timeout),
				svc.Name(),
			); err != nil {
				c <- fmt.Errorf("%w %s to tree: %w", ErrAddProcess, svc.Name(), err)
				return
			}
		}

		for _, svc := range e.extraServices {
			if err := supervisionTree.Add(
				process.New(svc, conn),
				oversight.Transient(),
				oversight.Timeout(e.timeout),
				svc.Name(),
			); err != nil {
				c <- fmt.Errorf("%w %s to tree: %w", ErrAddExtraService, svc.Name(), err)
				return
			}
		}
	}

	l.InfoContext(ctx, "starting keyboard services", "service", e.name)
	return nursery.RunConcurrentlyWithContext(ctx, supervise, spawnProcs)
}
