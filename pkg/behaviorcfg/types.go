// SPDX-License-Identifier: BSD-3-Clause

package behaviorcfg

// BoardConfig describes the physical chip and matrix wiring.
type BoardConfig struct {
	Name    string `toml:"name"`
	Chip    string `toml:"chip"`
	RowPins []string `toml:"row_pins"`
	ColPins []string `toml:"col_pins"`
	Col2Row bool   `toml:"col2row"`
}

// EncoderConfig names one rotary encoder's two quadrature phase lines.
type EncoderConfig struct {
	APin string `toml:"a_pin"`
	BPin string `toml:"b_pin"`
}

// InputConfig lists the scanned input devices beyond the key matrix.
type InputConfig struct {
	Encoders []EncoderConfig `toml:"encoders"`
}

// LayerConfig is one layer's key grid (by keycode alias) plus its encoder
// bindings, in row-major order.
type LayerConfig struct {
	Name     string     `toml:"name"`
	Keys     [][]string `toml:"keys"`     // [row][col], "KC_TRNS"/"KC_NO" or an alias
	Encoders [][2]string `toml:"encoders"` // per encoder index: [clockwise, counter-clockwise]
}

// TapHoldConfig is the board-wide default tap-hold timing, overridable
// per key by a MorseConfig entry.
type TapHoldConfig struct {
	HoldTimeoutMs uint16 `toml:"hold_timeout_ms"`
	GapTimeoutMs  uint16 `toml:"gap_timeout_ms"`
	Unilateral    bool   `toml:"unilateral_tap"`
}

// ComboConfig is one chord: member positions by "row,col" string plus the
// keycode alias it produces.
type ComboConfig struct {
	Keys      []string `toml:"keys"`
	Output    string   `toml:"output"`
	Layer     *uint8   `toml:"layer"`
	TimeoutMs uint16   `toml:"timeout_ms"`
}

// ForkConfig is one conditional key rewrite.
type ForkConfig struct {
	Trigger   string `toml:"trigger"`
	CondMods  string `toml:"cond_mods"`
	ReplaceIf string `toml:"replace_if"`
}

// MorseConfig is one multi-tap/tap-hold table entry, addressed by the
// index a KeyAction's MorseIndex refers to.
type MorseConfig struct {
	Index         uint8  `toml:"index"`
	HoldTimeoutMs uint16 `toml:"hold_timeout_ms"`
	GapTimeoutMs  uint16 `toml:"gap_timeout_ms"`
	MaxTaps       uint8  `toml:"max_taps"`
}

// TriLayerConfig names the three layers the lower+upper tri-layer shortcut
// combines into adjust.
type TriLayerConfig struct {
	Lower  uint8 `toml:"lower"`
	Upper  uint8 `toml:"upper"`
	Adjust uint8 `toml:"adjust"`
}

// AutoshiftConfig mirrors pkg/autoshift.Config, TOML-decodable.
type AutoshiftConfig struct {
	Enabled   bool   `toml:"enabled"`
	Letters   bool   `toml:"letters"`
	Numbers   bool   `toml:"numbers"`
	Symbols   bool   `toml:"symbols"`
	TimeoutMs uint16 `toml:"timeout_ms"`
}

// MacroConfig is one macro's plain-text bytecode: authored as a literal
// string, expanded byte-for-byte through the macro engine's ASCII table
// at trigger time, with an implicit 0x00 terminator.
type MacroConfig struct {
	Index uint8  `toml:"index"`
	Text  string `toml:"text"`
}

// BehaviorConfig groups every cross-key interaction rule.
type BehaviorConfig struct {
	TapHold    TapHoldConfig    `toml:"tap_hold"`
	Combos     []ComboConfig    `toml:"combo"`
	Forks      []ForkConfig     `toml:"fork"`
	Morses     []MorseConfig    `toml:"morse"`
	Macros     []MacroConfig    `toml:"macro"`
	TriLayer   *TriLayerConfig  `toml:"tri_layer"`
	Autoshift  AutoshiftConfig  `toml:"autoshift"`
	FlowTapMs  uint16           `toml:"flow_tap_ms"`
}

// StorageConfig configures the bbolt-backed persistence layer.
type StorageConfig struct {
	Path            string `toml:"path"`
	ChannelCapacity int    `toml:"channel_capacity"`
}

// BatteryConfig configures the battery-level reporting poll cadence.
type BatteryConfig struct {
	Enabled      bool   `toml:"enabled"`
	PollSeconds  uint32 `toml:"poll_seconds"`
	LowThreshold uint8  `toml:"low_threshold_pct"`
}

// Config is the root of a keyboard.toml document.
type Config struct {
	Board        BoardConfig     `toml:"board"`
	Input        InputConfig     `toml:"input"`
	DefaultLayer uint8           `toml:"default_layer"`
	Layers       []LayerConfig   `toml:"layer"`
	Behavior     BehaviorConfig  `toml:"behavior"`
	Storage      StorageConfig   `toml:"storage"`
	Battery      BatteryConfig   `toml:"battery"`
}
