// SPDX-License-Identifier: BSD-3-Clause

package encodersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arunsworld/nursery"
	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/encoder"
	"github.com/rmkfw/rmk/pkg/event"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*EncoderSvc)(nil)

// Encoder binds a rotary encoder's quadrature Reader to the synthetic
// position index its ticks are reported under.
type Encoder struct {
	Index  uint8
	Reader *encoder.Reader
}

// EncoderSvc polls every configured Encoder concurrently, turning completed
// detents into synthetic KeyEvents plus a lightweight Tick broadcast.
type EncoderSvc struct {
	config   *config
	encoders []Encoder
}

// New builds an EncoderSvc over the given encoders.
func New(encoders []Encoder, opts ...Option) *EncoderSvc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &EncoderSvc{config: cfg, encoders: encoders}
}

// Name implements service.Service.
func (s *EncoderSvc) Name() string { return s.config.serviceName }

// Run fans one poll loop out per configured encoder via nursery, the same
// fixed-sibling-task shape viasvc uses for its transport channels.
func (s *EncoderSvc) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", s.config.serviceName)

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("encodersvc: connect: %w", err)
	}
	defer nc.Close()

	bus := event.NewBus(nc)
	keyPub := event.MPSCPublisher[keycode.KeyEvent](bus, event.SubjectKeyEvent)
	tickPub := event.MPSCPublisher[Tick](bus, event.SubjectEncoderTick)

	logger.InfoContext(ctx, "encoder reader started", "count", len(s.encoders))
	return nursery.RunConcurrentlyWithContext(ctx, encoderJobs(s.config.pollInterval, s.encoders, keyPub, tickPub, logger)...)
}

func encoderJobs(interval time.Duration, encoders []Encoder, keyPub event.Publisher[keycode.KeyEvent], tickPub event.Publisher[Tick], logger *slog.Logger) []nursery.ConcurrentJob {
	jobs := make([]nursery.ConcurrentJob, len(encoders))
	for i, enc := range encoders {
		enc := enc
		jobs[i] = func(ctx context.Context, errCh chan error) {
			errCh <- pollEncoder(ctx, interval, enc, keyPub, tickPub, logger)
		}
	}
	return jobs
}

// pollEncoder samples one encoder's phase lines on interval until ctx is
// canceled. A completed detent becomes a press-then-release KeyEvent pair
// at the encoder's synthetic position (momentary, like a tap), plus a Tick
// broadcast for any consumer that wants the raw direction without decoding
// it back out of the synthetic position.
func pollEncoder(ctx context.Context, interval time.Duration, enc Encoder, keyPub event.Publisher[keycode.KeyEvent], tickPub event.Publisher[Tick], logger *slog.Logger) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			delta, err := enc.Reader.Poll()
			if err != nil {
				return err
			}
			if delta == 0 {
				continue
			}

			clockwise := delta > 0
			pos := keycode.EncoderPosition(enc.Index, clockwise)
			now := uint32(time.Since(start).Milliseconds())

			if err := keyPub.TryPublish(keycode.KeyEvent{Pos: pos, Pressed: true, Timestamp: now}); err != nil {
				logger.WarnContext(ctx, "encoder key event dropped", "err", err)
			}
			if err := keyPub.TryPublish(keycode.KeyEvent{Pos: pos, Pressed: false, Timestamp: now}); err != nil {
				logger.WarnContext(ctx, "encoder key release dropped", "err", err)
			}
			if err := tickPub.TryPublish(Tick{Index: enc.Index, Clockwise: clockwise}); err != nil {
				logger.DebugContext(ctx, "encoder tick broadcast dropped", "err", err)
			}
		}
	}
}
