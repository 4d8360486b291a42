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

package metrics

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
)

// Enabled is set from the command line; when false all registered metrics
// are no-ops.
var Enabled = false

// EnabledPrometheusExport gates the /metrics HTTP exporter.
var EnabledPrometheusExport = false

// DefaultRegistry holds every metric the daemon registers.
var DefaultRegistry = metrics.DefaultRegistry

// metricsEnabledFlag is the command line flag that turns collection on.
const metricsEnabledFlag = "metrics"

// init peeks at the command line for the metrics flag: packages build their
// metrics at package scope, before any flag parsing, so Enabled must already
// hold its final value by then.
func init() {
	for _, arg := range os.Args {
		if strings.TrimLeft(arg, "-") == metricsEnabledFlag {
			Enabled = true
		}
	}
}

// NewRegisteredCounter constructs and registers a Counter.
func NewRegisteredCounter(name string) metrics.Counter {
	if !Enabled {
		return metrics.NilCounter{}
	}
	return metrics.GetOrRegisterCounter(name, DefaultRegistry)
}

// NewRegisteredMeter constructs and registers a Meter.
func NewRegisteredMeter(name string) metrics.Meter {
	if !Enabled {
		return metrics.NilMeter{}
	}
	return metrics.GetOrRegisterMeter(name, DefaultRegistry)
}

// NewRegisteredGauge constructs and registers a Gauge.
func NewRegisteredGauge(name string) metrics.Gauge {
	if !Enabled {
		return metrics.NilGauge{}
	}
	return metrics.GetOrRegisterGauge(name, DefaultRegistry)
}

// CollectProcessMetrics periodically samples runtime memory statistics into
// the default registry. It returns at once when metrics are disabled and
// otherwise never returns; run it on its own goroutine.
func CollectProcessMetrics(refresh time.Duration) {
	if !Enabled {
		return
	}
	memAlloc := NewRegisteredGauge("system/memory/alloc")
	memPauses := NewRegisteredGauge("system/memory/pauses")
	memFrees := NewRegisteredGauge("system/memory/frees")
	goroutines := NewRegisteredGauge("system/goroutines")

	stats := new(runtime.MemStats)
	for {
		runtime.ReadMemStats(stats)
		memAlloc.Update(int64(stats.Alloc))
		memPauses.Update(int64(stats.PauseTotalNs))
		memFrees.Update(int64(stats.Frees))
		goroutines.Update(int64(runtime.NumGoroutine()))
		time.Sleep(refresh)
	}
}
