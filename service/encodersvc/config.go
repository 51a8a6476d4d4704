// SPDX-License-Identifier: BSD-3-Clause

package encodersvc

import "time"

// DefaultServiceName is the service.Service name EncoderSvc reports unless
// overridden with WithServiceName.
const DefaultServiceName = "encodersvc"

// DefaultPollInterval matches pkg/matrix's default scan cadence, since both
// feed the same key-event bus and neither benefits from running faster than
// the other.
const DefaultPollInterval = time.Millisecond

type config struct {
	serviceName  string
	pollInterval time.Duration
}

// Option configures an EncoderSvc.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithServiceName sets the service.Service name this instance reports.
func WithServiceName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithPollInterval overrides how often each configured encoder's phase
// lines are sampled.
func WithPollInterval(d time.Duration) Option {
	return optionFunc(func(c *config) { c.pollInterval = d })
}

func defaultConfig() *config {
	return &config{serviceName: DefaultServiceName, pollInterval: DefaultPollInterval}
}
