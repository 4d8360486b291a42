// Copyright 2026 The swarm-genesis Authors
// This file is part of the swarm-genesis library.
//
// The swarm-genesis library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The swarm-genesis library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the swarm-genesis library. If not, see <http://www.gnu.org/licenses/>.

// Package prometheusmetrics mirrors a go-metrics registry into a Prometheus
// registerer on a fixed interval.
package prometheusmetrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rcrowley/go-metrics"
)

// PrometheusConfig pumps gauges out of a go-metrics registry.
type PrometheusConfig struct {
	namespace     string
	registry      metrics.Registry
	subsystem     string
	promRegistry  prometheus.Registerer
	flushInterval time.Duration

	mu     sync.Mutex
	gauges map[string]prometheus.Gauge
}

// NewPrometheusProvider wires a go-metrics registry to a Prometheus registerer.
func NewPrometheusProvider(r metrics.Registry, namespace, subsystem string, promRegistry prometheus.Registerer, flushInterval time.Duration) *PrometheusConfig {
	return &PrometheusConfig{
		namespace:     namespace,
		subsystem:     subsystem,
		registry:      r,
		promRegistry:  promRegistry,
		flushInterval: flushInterval,
		gauges:        make(map[string]prometheus.Gauge),
	}
}

func (c *PrometheusConfig) flattenKey(key string) string {
	key = strings.Replace(key, " ", "_", -1)
	key = strings.Replace(key, ".", "_", -1)
	key = strings.Replace(key, "-", "_", -1)
	key = strings.Replace(key, "/", "_", -1)
	return key
}

func (c *PrometheusConfig) gaugeFromNameAndValue(name string, val float64) {
	key := fmt.Sprintf("%s_%s_%s", c.namespace, c.subsystem, c.flattenKey(name))
	c.mu.Lock()
	g, ok := c.gauges[key]
	if !ok {
		g = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: c.namespace,
			Subsystem: c.subsystem,
			Name:      c.flattenKey(name),
			Help:      name,
		})
		c.promRegistry.Register(g)
		c.gauges[key] = g
	}
	c.mu.Unlock()
	g.Set(val)
}

// UpdatePrometheusMetrics loops forever, flushing on every interval.
func (c *PrometheusConfig) UpdatePrometheusMetrics() {
	for range time.Tick(c.flushInterval) {
		c.UpdatePrometheusMetricsOnce()
	}
}

// UpdatePrometheusMetricsOnce flushes the registry a single time.
func (c *PrometheusConfig) UpdatePrometheusMetricsOnce() error {
	c.registry.Each(func(name string, i interface{}) {
		switch metric := i.(type) {
		case metrics.Counter:
			c.gaugeFromNameAndValue(name, float64(metric.Count()))
		case metrics.Gauge:
			c.gaugeFromNameAndValue(name, float64(metric.Value()))
		case metrics.GaugeFloat64:
			c.gaugeFromNameAndValue(name, metric.Value())
		case metrics.Meter:
			c.gaugeFromNameAndValue(name, metric.Snapshot().Rate1())
		case metrics.Timer:
			c.gaugeFromNameAndValue(name, metric.Snapshot().Mean())
		case metrics.Histogram:
			c.gaugeFromNameAndValue(name, metric.Snapshot().Mean())
		}
	})
	return nil
}
