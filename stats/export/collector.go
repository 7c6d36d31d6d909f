/*
 * MIT License
 *
 * Copyright (c) 2026 syslog-ng authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package export

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/syslog-ng/logcore/stats"
)

// SnapshotCollector adapts a stats.Registry into a prometheus.Collector, so
// the engine's own counters can additionally be served by a standard
// promhttp.Handler alongside the bespoke §6 scrape endpoint.
type SnapshotCollector struct {
	reg *stats.Registry
}

// NewSnapshotCollector wraps reg for prometheus.Registry.MustRegister.
func NewSnapshotCollector(reg *stats.Registry) *SnapshotCollector {
	return &SnapshotCollector{reg: reg}
}

// Describe intentionally sends no descriptors: cluster/counter shapes are
// dynamic (dynamic clusters come and go), so this collector is unchecked,
// matching prometheus.Collector's documented escape hatch for that case.
func (c *SnapshotCollector) Describe(chan<- *prometheus.Desc) {}

// Collect renders the current registry snapshot as untyped gauge metrics.
func (c *SnapshotCollector) Collect(ch chan<- prometheus.Metric) {
	for _, row := range Snapshot(c.reg, time.Now()) {
		labelNames := make([]string, 0, len(row.Labels)+3)
		labelValues := make([]string, 0, len(row.Labels)+3)
		for _, l := range row.Labels {
			labelNames = append(labelNames, PrometheusName(l.Name))
			labelValues = append(labelValues, l.Value)
		}
		if row.Component != "" {
			labelNames = append(labelNames, "component")
			labelValues = append(labelValues, row.Component)
		}
		if row.ID != "" {
			labelNames = append(labelNames, "id")
			labelValues = append(labelValues, row.ID)
		}
		if row.Instance != "" {
			labelNames = append(labelNames, "instance")
			labelValues = append(labelValues, row.Instance)
		}

		desc := prometheus.NewDesc(
			"syslogng_"+PrometheusName(row.Name+"_"+row.Counter),
			"syslog-ng core engine counter",
			labelNames, nil,
		)
		m, err := prometheus.NewConstMetric(desc, prometheus.UntypedValue, row.Value, labelValues...)
		if err != nil {
			continue
		}
		ch <- m
	}
}
