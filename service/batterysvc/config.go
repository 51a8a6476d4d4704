// SPDX-License-Identifier: BSD-3-Clause

package batterysvc

import "time"

const (
	DefaultServiceName  = "batterysvc"
	DefaultPollInterval = 60 * time.Second
)

type config struct {
	serviceName  string
	pollInterval time.Duration
}

// Option configures the batterysvc service.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithServiceName sets the service.Service name this instance reports.
func WithServiceName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithPollInterval sets how often the reader is sampled.
func WithPollInterval(d time.Duration) Option {
	return optionFunc(func(c *config) { c.pollInterval = d })
}

func defaultConfig() *config {
	return &config{serviceName: DefaultServiceName, pollInterval: DefaultPollInterval}
}
