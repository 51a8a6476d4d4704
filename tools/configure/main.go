// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rmkfw/rmk/pkg/behaviorcfg"
)

func main() {
	path := flag.String("config", "", "Path to a keyboard.toml board description")
	flag.Parse()

	if *path == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := behaviorcfg.Load(*path)
	if err != nil {
		log.Fatalln(err)
	}

	rt, err := behaviorcfg.Build(cfg)
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Printf("%s: %d layers, %dx%d matrix, %d combos, %d forks, %d morse entries, %d macros\n",
		cfg.Board.Name, len(cfg.Layers), len(cfg.Board.RowPins), len(cfg.Board.ColPins),
		len(rt.Combos), len(rt.Forks), rt.MorseTable.Count(), len(rt.MacroTable.Blobs))
}
