// SPDX-License-Identifier: BSD-3-Clause

package behaviorcfg

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load decodes and validates a keyboard.toml file at path. A Config
// returned from Load is guaranteed to satisfy every bound Validate checks;
// nothing downstream (keymap, combo, morse) re-validates at runtime.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("behaviorcfg: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("behaviorcfg: %s: %w", path, err)
	}
	return cfg, nil
}
