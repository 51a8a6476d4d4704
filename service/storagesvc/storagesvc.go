// SPDX-License-Identifier: BSD-3-Clause

package storagesvc

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/pkg/storage"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*StorageSvc)(nil)

// StorageSvc is the sole mutator of the persisted record database. Its
// Store is opened and its BootState loaded eagerly in New, synchronously,
// since the rest of the engine must have the boot-loaded keymap/morse/
// combo/fork tables in hand before it starts consuming key events — well
// before the supervision tree starts running services concurrently. Run
// only drains the write channel afterward.
type StorageSvc struct {
	config *config
	store  *storage.Store
	boot   *storage.BootState
}

// New opens the database at the configured path, ensures every bucket
// exists, and loads the full boot state. Callers wire the returned
// BootState into pkg/keymap/pkg/morse/pkg/combo/pkg/fork before starting
// any service that consumes key events, and pass the returned *Store to
// any component (pkg/keymap's StorageNotifier, service/viasvc, ...) that
// needs to submit writes.
func New(opts ...Option) (*StorageSvc, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}

	logger := log.GetGlobalLogger().With("service", cfg.serviceName)
	st, err := storage.Open(cfg.dbPath, cfg.channelCapacity, logger)
	if err != nil {
		return nil, fmt.Errorf("storagesvc: open: %w", err)
	}

	boot, err := st.Load()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("storagesvc: load boot state: %w", err)
	}

	return &StorageSvc{config: cfg, store: st, boot: boot}, nil
}

// Store returns the open database handle, for other components to submit
// writes against or read live.
func (s *StorageSvc) Store() *storage.Store { return s.store }

// BootState returns the full table of records loaded when New ran.
func (s *StorageSvc) BootState() *storage.BootState { return s.boot }

// Name implements service.Service.
func (s *StorageSvc) Name() string { return s.config.serviceName }

// Run drains the write channel, applying each request to the database,
// until ctx is canceled.
func (s *StorageSvc) Run(ctx context.Context, _ nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", s.config.serviceName)
	defer s.store.Close()

	logger.InfoContext(ctx, "storage task started", "path", s.config.dbPath)
	ch := s.store.WriteChannel()
	for {
		select {
		case req := <-ch:
			if err := s.store.Apply(req); err != nil {
				logger.ErrorContext(ctx, "storage write failed", "err", err, "type", fmt.Sprintf("%T", req))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
