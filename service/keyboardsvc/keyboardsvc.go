// SPDX-License-Identifier: BSD-3-Clause

package keyboardsvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rmkfw/rmk/pkg/action"
	"github.com/rmkfw/rmk/pkg/behaviorcfg"
	"github.com/rmkfw/rmk/pkg/event"
	"github.com/rmkfw/rmk/pkg/fork"
	"github.com/rmkfw/rmk/pkg/hidreport"
	"github.com/rmkfw/rmk/pkg/keycode"
	"github.com/rmkfw/rmk/pkg/keymap"
	"github.com/rmkfw/rmk/pkg/log"
	"github.com/rmkfw/rmk/pkg/macro"
	"github.com/rmkfw/rmk/pkg/morse"
	"github.com/rmkfw/rmk/pkg/mouse"
	"github.com/rmkfw/rmk/service"
)

var _ service.Service = (*KeyboardSvc)(nil)

// UserEvent is the bus payload for an ActionUser dispatch, published when
// split-user forwarding is enabled so a peripheral link or host-side
// handler can act on it. Index matches the binding's configured index.
type UserEvent struct {
	Index   uint8
	Pressed bool
}

// LayerState is the bus payload published whenever the topmost active
// layer changes, consumed by service/ledctrlsvc for a layer indicator.
type LayerState struct {
	Layer uint8
}

// KeyboardSvc wraps the action engine as a supervised service: one engine
// per process, every Handle/Tick call made from this single goroutine,
// matching pkg/action.Engine's own "not safe for concurrent calls"
// contract.
type KeyboardSvc struct {
	config *config
	rt     *behaviorcfg.Runtime
}

// New builds a KeyboardSvc from a behaviorcfg-assembled Runtime.
func New(rt *behaviorcfg.Runtime, opts ...Option) *KeyboardSvc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &KeyboardSvc{config: cfg, rt: rt}
}

// Name implements service.Service.
func (s *KeyboardSvc) Name() string { return s.config.serviceName }

// reportSink adapts event.Publisher[hidreport.Report] onto action.Reporter
// and mouse.Reporter, the two dispatchers the engine owns that emit
// reports of their own.
type reportSink struct {
	pub    event.Publisher[hidreport.Report]
	logger *slog.Logger
}

func (r reportSink) Report(rep hidreport.Report) {
	if err := r.pub.TryPublish(rep); err != nil {
		r.logger.Warn("hid report dropped", "err", err)
	}
}

// userForwarder adapts event.Publisher[UserEvent] onto action.UserHandler.
type userForwarder struct {
	pub event.Publisher[UserEvent]
}

func (f userForwarder) HandleUser(idx uint8, pressed bool) {
	_ = f.pub.TryPublish(UserEvent{Index: idx, Pressed: pressed})
}

// Run subscribes to the key-event bus and drives the action engine until
// ctx is canceled: each event is dispatched immediately, and the engine's
// own NextTimeout/Tick contract is honored by waiting on whichever comes
// first, a new event or the next pending morse/combo deadline.
func (s *KeyboardSvc) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	logger := log.GetGlobalLogger().With("service", s.config.serviceName)

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("keyboardsvc: connect: %w", err)
	}
	defer nc.Close()

	bus := event.NewBus(nc)
	keySub, err := event.MPSCSubscriber[keycode.KeyEvent](bus, event.SubjectKeyEvent, s.config.channelCapacity)
	if err != nil {
		return fmt.Errorf("keyboardsvc: subscribe key events: %w", err)
	}
	defer keySub.Close()

	reportPub := event.MPSCPublisher[hidreport.Report](bus, event.SubjectReport)
	sink := reportSink{pub: reportPub, logger: logger}
	layerPub := event.MPSCPublisher[LayerState](bus, event.SubjectLayerState)

	engine := action.New(s.rt.KeyMap, sink)
	engine.SetAutoShift(s.rt.Autoshift)
	if tl := s.rt.TriLayer; tl != nil {
		engine.SetTriLayer(tl.Lower, tl.Upper)
	}

	engine.SetForker(fork.New(s.rt.Forks))

	macros := macro.New(ctx, s.rt.MacroTable, engine)
	defer macros.Close()
	engine.SetMacroRunner(macros)

	mouseEngine := mouse.New(s.config.mouseConfig, sink)
	engine.SetMouseDriver(mouseEngine)

	// Must precede NewCombos: the combo engine's dispatcher captures
	// whatever resolver e.morse points to at construction time, so the
	// real table-backed resolver needs to be installed first or combo
	// output would route through the placeholder nil-table resolver
	// action.New starts with.
	engine.SetMorseResolver(morse.New(morse.Config{
		DefaultMode:        keycode.MorseModeNormal,
		FlowTapThresholdMs: s.rt.FlowTapMs,
	}, engine, s.rt.MorseTable))
	engine.SetCombos(engine.NewCombos(s.rt.Combos))

	if s.config.forwardUser {
		engine.SetUserHandler(userForwarder{pub: event.MPSCPublisher[UserEvent](bus, event.SubjectSplitUserEvent)})
	}

	start := time.Now()
	now := func() uint32 { return uint32(time.Since(start).Milliseconds()) }

	logger.InfoContext(ctx, "keyboard engine started",
		"layers", s.rt.KeyMap.LayerCount(), "combos", len(s.rt.Combos), "forks", len(s.rt.Forks))

	lastLayer := topActiveLayer(s.rt.KeyMap)
	for {
		waitCtx := ctx
		var cancel context.CancelFunc
		if deadline, ok := engine.NextTimeout(); ok {
			n := now()
			if deadline < n {
				deadline = n
			}
			waitCtx, cancel = context.WithDeadline(ctx, start.Add(time.Duration(deadline)*time.Millisecond))
		}

		ev, err := keySub.NextEvent(waitCtx)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// waitCtx's own deadline elapsed: a morse/combo timeout is due.
			engine.Tick(now())
		} else {
			engine.HandleKeyEvent(ev)
		}

		if layer := topActiveLayer(s.rt.KeyMap); layer != lastLayer {
			lastLayer = layer
			if pubErr := layerPub.TryPublish(LayerState{Layer: layer}); pubErr != nil {
				logger.DebugContext(ctx, "layer state broadcast dropped", "err", pubErr)
			}
		}
	}
}

// topActiveLayer returns the highest-indexed currently active layer, or
// the default layer if none is active, matching keymap's own topmost-wins
// resolution order.
func topActiveLayer(km *keymap.KeyMap) uint8 {
	for l := km.LayerCount() - 1; l >= 0; l-- {
		if km.IsLayerActive(uint8(l)) {
			return uint8(l)
		}
	}
	return km.DefaultLayer()
}
