// SPDX-License-Identifier: BSD-3-Clause

package ledctrlsvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arunsworld/nursery"
	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/event"
	"github.com/rmkfw/rmk/pkg/gpio"
	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/service"
	"github.com/rmkfw/rmk/service/batterysvc"
	"github.com/rmkfw/rmk/service/keyboardsvc"
)

var _ service.Service = (*LedCtrlSvc)(nil)

// LedCtrlSvc drives up to two indicator lines. Either may be nil when the
// board has no such indicator wired, in which case that bus subscription
// is simply never opened.
type LedCtrlSvc struct {
	config *config
	layer  *gpio.Line
	status *gpio.Line
}

// New builds a LedCtrlSvc. layer lights whenever a non-default layer is
// active; status blinks while the battery is low.
func New(layer, status *gpio.Line, opts ...Option) *LedCtrlSvc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &LedCtrlSvc{config: cfg, layer: layer, status: status}
}

// Name implements service.Service.
func (s *LedCtrlSvc) Name() string { return s.config.serviceName }

// Run subscribes to whichever bus subjects its configured lines need and
// drives them until ctx is canceled.
func (s *LedCtrlSvc) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", s.config.serviceName)

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("ledctrlsvc: connect: %w", err)
	}
	defer nc.Close()

	bus := event.NewBus(nc)

	var jobs []nursery.ConcurrentJob

	if s.layer != nil {
		sub, err := event.MPSCSubscriber[keyboardsvc.LayerState](bus, event.SubjectLayerState, s.config.channelCapacity)
		if err != nil {
			return fmt.Errorf("ledctrlsvc: subscribe layer state: %w", err)
		}
		defer sub.Close()
		jobs = append(jobs, func(ctx context.Context, errCh chan error) {
			errCh <- s.runLayerIndicator(ctx, sub, logger)
		})
	}

	if s.status != nil {
		sub, err := event.MPSCSubscriber[batterysvc.BatteryLevel](bus, event.SubjectBatteryLevel, s.config.channelCapacity)
		if err != nil {
			return fmt.Errorf("ledctrlsvc: subscribe battery level: %w", err)
		}
		defer sub.Close()
		jobs = append(jobs, func(ctx context.Context, errCh chan error) {
			errCh <- s.runBatteryIndicator(ctx, sub, logger)
		})
	}

	if len(jobs) == 0 {
		logger.InfoContext(ctx, "led controller has no lines configured, idling")
		<-ctx.Done()
		return ctx.Err()
	}

	logger.InfoContext(ctx, "led controller started")
	return nursery.RunConcurrentlyWithContext(ctx, jobs...)
}

func (s *LedCtrlSvc) runLayerIndicator(ctx context.Context, sub *event.Subscriber[keyboardsvc.LayerState], logger *slog.Logger) error {
	for {
		ls, err := sub.NextEvent(ctx)
		if err != nil {
			return ctx.Err()
		}
		if err := s.layer.SetValue(boolToLineValue(ls.Layer > 0)); err != nil {
			logger.WarnContext(ctx, "layer indicator write failed", "err", err)
		}
	}
}

// runBatteryIndicator starts a blink goroutine the moment the level drops
// to or below the threshold and cancels it the moment it recovers, rather
// than re-issuing Blink on every sample (Blink already runs until its
// context is canceled).
func (s *LedCtrlSvc) runBatteryIndicator(ctx context.Context, sub *event.Subscriber[batterysvc.BatteryLevel], logger *slog.Logger) error {
	var cancelBlink context.CancelFunc
	stopBlink := func() {
		if cancelBlink != nil {
			cancelBlink()
			cancelBlink = nil
			_ = s.status.SetValue(0)
		}
	}
	defer stopBlink()

	for {
		bl, err := sub.NextEvent(ctx)
		if err != nil {
			return ctx.Err()
		}

		low := bl.Percent <= s.config.lowThreshold
		switch {
		case low && cancelBlink == nil:
			var blinkCtx context.Context
			blinkCtx, cancelBlink = context.WithCancel(ctx)
			go func() {
				if err := s.status.Blink(blinkCtx, gpio.SlowBlink()); err != nil {
					logger.DebugContext(ctx, "battery indicator blink stopped", "err", err)
				}
			}()
		case !low:
			stopBlink()
		}
	}
}

func boolToLineValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
