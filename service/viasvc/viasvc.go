// SPDX-License-Identifier: BSD-3-Clause

package viasvc

import (
	"context"

	"github.com/arunsworld/nursery"
	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/pkg/via"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*ViaSvc)(nil)

// ViaSvc runs via.Service.Handle against every configured transport
// Channel concurrently. Unlike the report/key-event services it has no
// traffic of its own to put on the shared bus: host keymap edits land
// directly on the live keymap/behavior tables via.Service already holds,
// the same objects the rest of the engine reads from.
type ViaSvc struct {
	config   *config
	svc      *via.Service
	channels []Channel
}

// New builds a ViaSvc dispatching against svc over the given transports.
func New(svc *via.Service, channels []Channel, opts ...Option) *ViaSvc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &ViaSvc{config: cfg, svc: svc, channels: channels}
}

// Name implements service.Service.
func (v *ViaSvc) Name() string { return v.config.serviceName }

// Run fans one job out per configured channel via nursery, matching the
// corpus's fixed-sibling-task pattern; ipcConn is accepted to satisfy
// service.Service but unused, since VIA/Vial requests are answered
// synchronously against live state rather than routed through the bus.
func (v *ViaSvc) Run(ctx context.Context, _ nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", v.config.serviceName)
	logger.InfoContext(ctx, "via host protocol service starting", "channels", len(v.channels))
	return nursery.RunConcurrentlyWithContext(ctx, channelJobs(v.svc, v.channels)...)
}

func channelJobs(svc *via.Service, channels []Channel) []nursery.ConcurrentJob {
	jobs := make([]nursery.ConcurrentJob, len(channels))
	for i, ch := range channels {
		ch := ch
		jobs[i] = func(ctx context.Context, errChan chan error) {
			errChan <- ch.Run(ctx, svc.Handle)
		}
	}
	return jobs
}
