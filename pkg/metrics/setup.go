package metrics

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// NoopProvider discards every call — the default when RJS_DD_ENABLED is
// unset, so the dependency stays linked but never dials out in tests or
// local `serve` runs.
type NoopProvider struct{}

func (NoopProvider) Count(name string, value float64, tags []string) error     { return nil }
func (NoopProvider) Gauge(name string, value float64, tags []string) error     { return nil }
func (NoopProvider) Histogram(name string, value float64, tags []string) error { return nil }

// DatadogProvider adapts the official statsd client to Provider.
type DatadogProvider struct {
	client *statsd.Client
}

func (d *DatadogProvider) Count(name string, value float64, tags []string) error {
	return d.client.Count(name, int64(value), tags, 1)
}

func (d *DatadogProvider) Gauge(name string, value float64, tags []string) error {
	return d.client.Gauge(name, value, tags, 1)
}

func (d *DatadogProvider) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}

// Setup builds the provider the server runs with: a NoopProvider unless
// enabled is true, in which case it dials a statsd client at addr.
func Setup(enabled bool, addr, namespace string) (Provider, error) {
	if !enabled {
		return NoopProvider{}, nil
	}

	client, err := statsd.New(addr, statsd.WithNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("metrics: connecting to datadog statsd: %w", err)
	}
	return &DatadogProvider{client: client}, nil
}
