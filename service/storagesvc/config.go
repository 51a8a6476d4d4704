// SPDX-License-Identifier: BSD-3-Clause

package storagesvc

const (
	DefaultServiceName     = "storagesvc"
	DefaultDBPath          = "/var/lib/rmk/storage.db"
	DefaultChannelCapacity = 32
)

type config struct {
	serviceName     string
	dbPath          string
	channelCapacity int
}

// Option configures the storagesvc service.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithServiceName sets the service.Service name this instance reports.
func WithServiceName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithDBPath sets the bbolt database file path.
func WithDBPath(path string) Option {
	return optionFunc(func(c *config) { c.dbPath = path })
}

// WithChannelCapacity bounds the pending-write count before Submit starts
// dropping writes rather than blocking the caller.
func WithChannelCapacity(n int) Option {
	return optionFunc(func(c *config) { c.channelCapacity = n })
}

func defaultConfig() *config {
	return &config{
		serviceName:     DefaultServiceName,
		dbPath:          DefaultDBPath,
		channelCapacity: DefaultChannelCapacity,
	}
}
