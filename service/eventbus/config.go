// SPDX-License-Identifier: BSD-3-Clause

package eventbus

import "time"

const (
	DefaultServiceName     = "eventbus"
	DefaultServerName      = "rmk-eventbus"
	DefaultStartupTimeout  = 5 * time.Second
	DefaultShutdownTimeout = 2 * time.Second
)

type config struct {
	serviceName     string
	serverName      string
	startupTimeout  time.Duration
	shutdownTimeout time.Duration
}

// Option configures the eventbus service.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithServiceName sets the service.Service name this instance reports.
func WithServiceName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithServerName sets the embedded NATS server's advertised name.
func WithServerName(name string) Option {
	return optionFunc(func(c *config) { c.serverName = name })
}

// WithStartupTimeout bounds how long Run waits for the embedded server to
// become ready for connections before failing.
func WithStartupTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) { c.startupTimeout = d })
}

// WithShutdownTimeout bounds how long Run waits for a graceful lame-duck
// shutdown before forcing the server down.
func WithShutdownTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) { c.shutdownTimeout = d })
}

func defaultConfig() *config {
	return &config{
		serviceName:     DefaultServiceName,
		serverName:      DefaultServerName,
		startupTimeout:  DefaultStartupTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
	}
}
