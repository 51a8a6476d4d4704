// SPDX-License-Identifier: BSD-3-Clause

package matrixsvc

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/event"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/pkg/matrix"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*MatrixSvc)(nil)

// MatrixSvc runs a matrix.Matrix scan loop and publishes every debounced
// transition it finds onto the key-event bus.
type MatrixSvc struct {
	config *config
	m      *matrix.Matrix
}

// New builds a MatrixSvc around an already-configured matrix.Matrix.
func New(m *matrix.Matrix, opts ...Option) *MatrixSvc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &MatrixSvc{config: cfg, m: m}
}

// Name implements service.Service.
func (s *MatrixSvc) Name() string { return s.config.serviceName }

// Run scans the matrix until ctx is canceled, publishing every debounced
// transition as a keycode.KeyEvent.
func (s *MatrixSvc) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", s.config.serviceName)

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("matrixsvc: connect: %w", err)
	}
	defer nc.Close()

	bus := event.NewBus(nc)
	pub := event.MPSCPublisher[keycode.KeyEvent](bus, event.SubjectKeyEvent)

	logger.InfoContext(ctx, "matrix scan started", "rows", s.m.Rows(), "cols", s.m.Cols())
	err = s.m.Run(ctx, func(ev keycode.KeyEvent) {
		if pubErr := pub.TryPublish(ev); pubErr != nil {
			logger.WarnContext(ctx, "key event dropped", "err", pubErr)
		}
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
