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

// Package export renders a stats registry snapshot in the three wire formats
// named by spec §4.1/§6: Prometheus text exposition, CSV and key=value.
//
// This package also backs the `github.com/prometheus/client_golang` wiring
// named in SPEC_FULL.md §3: SnapshotCollector (prometheus.go) adapts a
// Registry into a prometheus.Collector so the engine can be scraped through
// either its own §6 HTTP endpoint or a standard promhttp.Handler.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/syslog-ng/logcore/stats"
)

// Row is one exported (cluster, counter) pair, already unit-converted.
type Row struct {
	Component string
	ID        string
	Instance  string
	Name      string
	Counter   string
	State     byte // 'a' active, 'o' orphaned, 'd' dynamic
	Labels    []stats.Label
	Value     float64
}

// Snapshot walks registry and produces one Row per live counter, applying
// the unit conversion and frame-of-reference rules of spec §4.1.
func Snapshot(reg *stats.Registry, now time.Time) []Row {
	var rows []Row
	reg.ForeachCluster(func(c *stats.Cluster) bool {
		state := byte('a')
		if c.Orphaned() {
			state = 'o'
		} else if c.Dynamic() {
			state = 'd'
		}

		for _, id := range c.CounterIDs() {
			cnt := c.Counter(id)
			if cnt == nil {
				continue
			}
			raw := cnt.Get()
			row := Row{
				Component: c.Key().Legacy.Component,
				ID:        c.Key().Legacy.ID,
				Instance:  c.Key().Legacy.Instance,
				Name:      counterQueryName(c, id),
				Counter:   counterSlotName(id),
				State:     state,
				Labels:    c.Key().Labels,
				Value:     convertUnit(c, id, raw, now),
			}
			rows = append(rows, row)
		}
		return true
	}, nil)
	return rows
}

func counterQueryName(c *stats.Cluster, id stats.CounterID) string {
	if c.Key().Legacy.IsZero() {
		return c.Key().Name
	}
	return c.Key().QueryKey()
}

var counterSlotNames = map[stats.CounterID]string{
	stats.CounterValue:       "value",
	stats.CounterDropped:     "dropped",
	stats.CounterProcessed:   "processed",
	stats.CounterQueued:      "queued",
	stats.CounterSuppressed:  "suppressed",
	stats.CounterStamp:       "stamp",
	stats.CounterMemoryUsage: "memory_usage",
	stats.CounterDiscarded:   "discarded",
	stats.CounterMatched:     "matched",
	stats.CounterNotMatched:  "not_matched",
	stats.CounterWritten:     "written",
}

func counterSlotName(id stats.CounterID) string {
	if n, ok := counterSlotNames[id]; ok {
		return n
	}
	return "unknown"
}

// convertUnit applies spec §4.1's unit conversion: KiB/MiB/GiB multiply up to
// bytes; seconds/minutes/hours normalize to seconds; ms/ns to seconds as a
// float; a relative-to-time-of-query frame subtracts the stored value from
// now.
func convertUnit(c *stats.Cluster, id stats.CounterID, raw int64, now time.Time) float64 {
	if c.FrameOfReference(id) == stats.FrameRelativeToTimeOfQuery {
		return float64(now.Unix() - raw)
	}

	switch c.Unit(id) {
	case stats.UnitBytesKiB:
		return float64(raw) * 1024
	case stats.UnitBytesMiB:
		return float64(raw) * 1024 * 1024
	case stats.UnitBytesGiB:
		return float64(raw) * 1024 * 1024 * 1024
	case stats.UnitMinutes:
		return float64(raw) * 60
	case stats.UnitHours:
		return float64(raw) * 3600
	case stats.UnitMilliseconds:
		return float64(raw) / 1000.0
	case stats.UnitNanoseconds:
		return float64(raw) / 1e9
	default:
		return float64(raw)
	}
}

// PrometheusName sanitizes name into a valid Prometheus metric identifier
// segment, matching spec §4.1: characters outside [A-Za-z0-9_] become '_',
// except at the initial position where they are dropped instead.
func PrometheusName(name string) string {
	var b strings.Builder
	first := true
	for _, r := range name {
		valid := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || (!first && r >= '0' && r <= '9')
		if valid {
			b.WriteRune(r)
			first = false
			continue
		}
		if first {
			continue // illegal initial character: drop, don't substitute
		}
		b.WriteByte('_')
	}
	return b.String()
}

// PrometheusEscapeLabelValue escapes a label value per the Prometheus text
// exposition format plus spec §4.1's invalid-UTF-8 escaping.
func PrometheusEscapeLabelValue(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, "\\x%02x", s[0])
			s = s[1:]
			continue
		}
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
		s = s[size:]
	}
	return b.String()
}

// Prometheus renders rows in Prometheus text exposition format.
func Prometheus(rows []Row) []byte {
	var b strings.Builder
	for _, row := range rows {
		metric := "syslogng_" + PrometheusName(row.Name+"_"+row.Counter)

		labels := make([]stats.Label, 0, len(row.Labels)+3)
		labels = append(labels, row.Labels...)
		if row.Component != "" {
			labels = append(labels, stats.Label{Name: "component", Value: row.Component})
		}
		if row.ID != "" {
			labels = append(labels, stats.Label{Name: "id", Value: row.ID})
		}
		if row.Instance != "" {
			labels = append(labels, stats.Label{Name: "instance", Value: row.Instance})
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })

		b.WriteString(metric)
		if len(labels) > 0 {
			b.WriteByte('{')
			for i, l := range labels {
				if i > 0 {
					b.WriteByte(',')
				}
				fmt.Fprintf(&b, `%s="%s"`, PrometheusName(l.Name), PrometheusEscapeLabelValue(l.Value))
			}
			b.WriteByte('}')
		}
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(row.Value, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
