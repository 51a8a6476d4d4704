// SPDX-License-Identifier: BSD-3-Clause

package keyboardsvc

import "github.com/rmkfw/rmk/pkg/mouse"

const (
	DefaultServiceName     = "keyboardsvc"
	DefaultChannelCapacity = 32
)

type config struct {
	serviceName     string
	channelCapacity int
	mouseConfig     mouse.Config
	forwardUser     bool
}

// Option configures the keyboardsvc service.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithServiceName sets the service.Service name this instance reports.
func WithServiceName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithChannelCapacity bounds the pending key-event count before the bus's
// slow-consumer policy starts dropping.
func WithChannelCapacity(n int) Option {
	return optionFunc(func(c *config) { c.channelCapacity = n })
}

// WithMouseConfig overrides the mouse acceleration curve the engine's
// mouse-key driver uses; defaults to mouse.DefaultConfig().
func WithMouseConfig(cfg mouse.Config) Option {
	return optionFunc(func(c *config) { c.mouseConfig = cfg })
}

// WithSplitUserForwarding enables publishing ActionUser dispatch onto the
// split user-event bus subject, so a connected peripheral or host-side
// handler can act on it. Off by default since most boards never bind
// ActionUser.
func WithSplitUserForwarding() Option {
	return optionFunc(func(c *config) { c.forwardUser = true })
}

func defaultConfig() *config {
	return &config{
		serviceName:     DefaultServiceName,
		channelCapacity: DefaultChannelCapacity,
		mouseConfig:     mouse.DefaultConfig(),
	}
}
