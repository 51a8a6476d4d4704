// SPDX-License-Identifier: BSD-3-Clause

package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*EventBus)(nil)

// EventBus runs the embedded NATS server that every other service connects
// to for pkg/event Bus access. One process runs exactly one EventBus; its
// lifecycle is init-at-program-start, shut down only when the process
// exits: one process-wide event bus.
type EventBus struct {
	config *config
	server *server.Server
}

// New creates an EventBus with the given options applied over the defaults.
func New(opts ...Option) *EventBus {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &EventBus{config: cfg}
}

// Name implements service.Service.
func (b *EventBus) Name() string { return b.config.serviceName }

// Run starts the embedded NATS server and blocks until ctx is canceled,
// then performs a lame-duck shutdown.
func (b *EventBus) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", b.config.serviceName)
	logger.InfoContext(ctx, "starting event bus", "server_name", b.config.serverName)

	opts := &server.Options{
		ServerName: b.config.serverName,
		DontListen: true, // in-process only, no TCP listener
		NoLog:      false,
		NoSigs:     true,
	}
	ns, err := server.NewServer(opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServerCreationFailed, err)
	}
	b.server = ns
	b.server.SetLoggerV2(log.NewNATSLogger(logger), true, false, false)
	b.server.Start()

	if !b.server.ReadyForConnections(b.config.startupTimeout) {
		b.server.Shutdown()
		return fmt.Errorf("%w: %v", ErrServerTimeout, b.config.startupTimeout)
	}
	logger.InfoContext(ctx, "event bus ready", "server_id", b.server.ID())

	<-ctx.Done()
	return b.shutdown(ctx)
}

// GetConnProvider returns a ConnProvider for this bus, blocking until the
// server is constructed (but not necessarily ready for connections — use
// InProcessConn for that).
func (b *EventBus) GetConnProvider() *ConnProvider {
	deadline := time.Now().Add(b.config.startupTimeout)
	for b.server == nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	return &ConnProvider{server: b.server}
}

// Connect dials an in-process *nats.Conn suitable for constructing a
// pkg/event.Bus.
func (b *EventBus) Connect() (*nats.Conn, error) {
	provider := b.GetConnProvider()
	return nats.Connect("", nats.InProcessServer(provider))
}

func (b *EventBus) shutdown(ctx context.Context) error {
	err := ctx.Err()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.config.shutdownTimeout)
	defer cancel()

	if b.server == nil {
		return err
	}
	b.server.LameDuckShutdown()
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.server.Shutdown()
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
	}
	return err
}
