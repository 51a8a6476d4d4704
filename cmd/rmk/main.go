// SPDX-License-Identifier: BSD-3-Clause

// Command rmk boots a single keyboard process from a keyboard.toml board
// description: it scans the matrix and any rotary encoders, runs the key-
// action engine, writes assembled reports to a USB HID gadget, and
// persists live keymap edits to a local database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmkfw/rmk/pkg/behaviorcfg"
	"github.com/rmkfw/rmk/pkg/encoder"
	"github.com/rmkfw/rmk/pkg/gpio"
	"github.com/rmkfw/rmk/pkg/hidtransport"
	"github.com/rmkfw/rmk/pkg/matrix"
	"github.com/rmkfw/rmk/pkg/storage"
	"github.com/rmkfw/rmk/service/batterysvc"
	"github.com/rmkfw/rmk/service/encodersvc"
	"github.com/rmkfw/rmk/service/engine"
	"github.com/rmkfw/rmk/service/hidsvc"
	"github.com/rmkfw/rmk/service/keyboardsvc"
	"github.com/rmkfw/rmk/service/matrixsvc"
	"github.com/rmkfw/rmk/service/storagesvc"
)

func main() {
	configPath := flag.String("config", "", "Path to a keyboard.toml board description")
	gpioChip := flag.String("gpio-chip", "", "GPIO character device the board's pins are on (defaults to the board config's chip)")
	keyboardDev := flag.String("hid-keyboard-dev", "/dev/hidg0", "USB HID gadget device for the boot-compatible keyboard report")
	sharedDev := flag.String("hid-shared-dev", "/dev/hidg1", "USB HID gadget device for mouse/media/system reports")
	flag.Parse()

	if *configPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := behaviorcfg.Load(*configPath)
	if err != nil {
		log.Fatalln(err)
	}
	if *gpioChip == "" {
		*gpioChip = cfg.Board.Chip
	}
	rt, err := behaviorcfg.Build(cfg)
	if err != nil {
		log.Fatalln(err)
	}

	store, err := storagesvc.New(
		storagesvc.WithDBPath(cfg.Storage.Path),
		storagesvc.WithChannelCapacity(cfg.Storage.ChannelCapacity),
	)
	if err != nil {
		log.Fatalln(err)
	}
	applyBootState(rt, store.BootState())
	rt.KeyMap.SetNotifier(storagesvc.NewKeymapNotifier(store.Store()))

	m, err := buildMatrix(*gpioChip, cfg.Board)
	if err != nil {
		log.Fatalln(err)
	}

	encoders, err := buildEncoders(*gpioChip, cfg.Input.Encoders)
	if err != nil {
		log.Fatalln(err)
	}

	opts := []engine.Option{
		engine.WithName("rmk"),
		engine.WithEventBus(),
		engine.WithMatrixsvc(matrixsvc.New(m)),
		engine.WithKeyboardsvc(keyboardsvc.New(rt)),
		engine.WithHidsvc(hidsvc.New([]hidtransport.Writer{hidtransport.NewUSBWriter(*keyboardDev, *sharedDev)})),
		engine.WithStoragesvc(store),
	}
	if len(encoders) > 0 {
		opts = append(opts, engine.WithEncodersvc(encodersvc.New(encoders)))
	}
	if cfg.Battery.Enabled {
		opts = append(opts, engine.WithBatterysvc(batterysvc.New(
			constantReader{percent: 100},
			nil,
			batterysvc.WithPollInterval(time.Duration(cfg.Battery.PollSeconds)*time.Second),
		)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.New(opts...).Run(ctx, nil); err != nil && ctx.Err() == nil {
		log.Fatalln(err)
	}
}

// applyBootState overlays persisted keymap/encoder edits onto the
// compiled-in runtime before anything starts consuming key events, per
// storagesvc's own documented contract. Run before KeyMap.SetNotifier is
// attached, so replaying a stored value does not immediately write it
// straight back.
func applyBootState(rt *behaviorcfg.Runtime, boot *storage.BootState) {
	for k, action := range boot.Keymap {
		_ = rt.KeyMap.SetActionAt(k[0], k[1], k[2], action)
	}
	for k, action := range boot.Encoders {
		_ = rt.KeyMap.SetEncoderActionAt(k[0], k[1], action)
	}
	for idx, m := range boot.Morses {
		rt.MorseTable.Set(int(idx), m)
	}
	for idx, f := range boot.Forks {
		if int(idx) < len(rt.Forks) {
			rt.Forks[idx] = f
		}
	}
	for idx, c := range boot.Combos {
		if int(idx) < len(rt.Combos) {
			rt.Combos[idx] = c
		}
	}
}

func buildMatrix(chip string, board behaviorcfg.BoardConfig) (*matrix.Matrix, error) {
	rowLines, colLines := board.RowPins, board.ColPins
	if board.Col2Row {
		rowLines, colLines = board.ColPins, board.RowPins
	}
	outputs := make([]matrix.OutputLine, len(rowLines))
	inputs := make([]matrix.InputLine, len(colLines))

	for i, pin := range rowLines {
		line, err := gpio.RequestLine(chip, pin, gpio.AsOutput())
		if err != nil {
			return nil, fmt.Errorf("matrix strobe line %q: %w", pin, err)
		}
		outputs[i] = line
	}
	for i, pin := range colLines {
		line, err := gpio.RequestLine(chip, pin, gpio.AsInput())
		if err != nil {
			return nil, fmt.Errorf("matrix sense line %q: %w", pin, err)
		}
		inputs[i] = line
	}

	debouncer := matrix.NewCountingDebouncer(len(outputs), len(inputs), 5)
	mcfg := matrix.DefaultConfig()
	mcfg.Col2Row = board.Col2Row
	return matrix.New(outputs, inputs, debouncer, mcfg), nil
}

func buildEncoders(chip string, cfgs []behaviorcfg.EncoderConfig) ([]encodersvc.Encoder, error) {
	out := make([]encodersvc.Encoder, len(cfgs))
	for i, ec := range cfgs {
		a, err := gpio.RequestLine(chip, ec.APin, gpio.AsInput())
		if err != nil {
			return nil, fmt.Errorf("encoder %d phase A line %q: %w", i, ec.APin, err)
		}
		b, err := gpio.RequestLine(chip, ec.BPin, gpio.AsInput())
		if err != nil {
			return nil, fmt.Errorf("encoder %d phase B line %q: %w", i, ec.BPin, err)
		}
		out[i] = encodersvc.Encoder{Index: uint8(i), Reader: encoder.NewReader(a, b)}
	}
	return out, nil
}

// constantReader reports a fixed battery percentage, a placeholder for a
// board-specific ADC/fuel-gauge driver this repository does not target.
type constantReader struct{ percent uint8 }

func (r constantReader) ReadPercent() (uint8, error) { return r.percent, nil }
