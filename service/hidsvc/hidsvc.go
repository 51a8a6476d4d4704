// SPDX-License-Identifier: BSD-3-Clause

package hidsvc

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/event"
	"github.com/rmkfw/rmk/pkg/hidreport"
	"github.com/rmkfw/rmk/pkg/hidtransport"
	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*HidSvc)(nil)

// HidSvc is the RunnableHidWriter task: it subscribes to the report bus and
// fans each report out to every configured transport writer. One HidSvc per
// process; collapsed into a single consumer loop since both writers share
// the same report stream.
type HidSvc struct {
	config  *config
	writers []hidtransport.Writer
}

// New builds a HidSvc with the given transports attached.
func New(writers []hidtransport.Writer, opts ...Option) *HidSvc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &HidSvc{config: cfg, writers: writers}
}

// Name implements service.Service.
func (h *HidSvc) Name() string { return h.config.serviceName }

// Run subscribes to the report subject and writes every report to each
// attached writer until ctx is canceled.
func (h *HidSvc) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", h.config.serviceName)

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("hidsvc: connect: %w", err)
	}
	defer nc.Close()

	bus := event.NewBus(nc)
	sub, err := event.MPSCSubscriber[hidreport.Report](bus, event.SubjectReport, h.config.channelCapacity)
	if err != nil {
		return fmt.Errorf("hidsvc: subscribe: %w", err)
	}
	defer sub.Close()

	logger.InfoContext(ctx, "hid writer started", "transports", len(h.writers))
	for {
		r, err := sub.NextEvent(ctx)
		if err != nil {
			return ctx.Err()
		}
		for _, w := range h.writers {
			if err := w.WriteReport(ctx, r); err != nil {
				logger.DebugContext(ctx, "report dropped", "transport", w.Name(), "err", err)
			}
		}
	}
}
