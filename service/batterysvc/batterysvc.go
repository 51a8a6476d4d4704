// SPDX-License-Identifier: BSD-3-Clause

package batterysvc

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/blegatt"
	"github.com/rmkfw/rmk/pkg/event"
	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*BatterySvc)(nil)

// Reader samples the current battery level as a 0-100 percentage. A board
// with no fuel gauge can supply a constant reader reporting 100.
type Reader interface {
	ReadPercent() (uint8, error)
}

// BatteryLevel is the bus payload published on every poll.
type BatteryLevel struct {
	Percent uint8
}

// BatterySvc samples reader on a fixed interval, publishing each sample
// onto the battery-level bus subject and, if a GATT characteristic is
// attached, as a BLE Battery Service (0x180F) notification.
type BatterySvc struct {
	config *config
	reader Reader
	ble    blegatt.Characteristic
}

// New builds a BatterySvc around reader. ble may be nil on a USB-only
// board with no GATT Battery Service characteristic to notify.
func New(reader Reader, ble blegatt.Characteristic, opts ...Option) *BatterySvc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &BatterySvc{config: cfg, reader: reader, ble: ble}
}

// Name implements service.Service.
func (s *BatterySvc) Name() string { return s.config.serviceName }

// Run polls the reader until ctx is canceled.
func (s *BatterySvc) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", s.config.serviceName)

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("batterysvc: connect: %w", err)
	}
	defer nc.Close()

	bus := event.NewBus(nc)
	pub := event.MPSCPublisher[BatteryLevel](bus, event.SubjectBatteryLevel)

	ticker := time.NewTicker(s.config.pollInterval)
	defer ticker.Stop()

	logger.InfoContext(ctx, "battery polling started", "interval", s.config.pollInterval)
	for {
		percent, err := s.reader.ReadPercent()
		if err != nil {
			logger.WarnContext(ctx, "battery read failed", "err", err)
		} else {
			if pubErr := pub.TryPublish(BatteryLevel{Percent: percent}); pubErr != nil {
				logger.WarnContext(ctx, "battery level broadcast dropped", "err", pubErr)
			}
			if s.ble != nil {
				if notifyErr := s.ble.Notify([]byte{percent}); notifyErr != nil {
					logger.DebugContext(ctx, "battery BLE notify failed", "err", notifyErr)
				}
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
