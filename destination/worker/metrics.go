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

package worker

import "github.com/syslog-ng/logcore/stats"

// WorkerMetrics are the per-worker counters named in spec §4.6. They default
// to no-op null counters so a Driver can run without a stats registry wired
// in (tests, illustrative examples).
type WorkerMetrics struct {
	EventBytes          stats.StatsByteCounter
	Unreachable         stats.Counter
	EventDelaySample    stats.Counter // seconds, sampled at most once per wall-clock second
	EventDelaySampleAge stats.Counter
}

func newWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		Unreachable:         stats.NullCounter,
		EventDelaySample:    stats.NullCounter,
		EventDelaySampleAge: stats.NullCounter,
	}
}

// DriverMetrics aggregates across every worker of one destination driver
// (spec §4.6 "Per-driver aggregated").
type DriverMetrics struct {
	EventsDelivered stats.Counter
	EventsDropped   stats.Counter
	EventsQueued    stats.Counter
	Retries         stats.Counter
	Processed       stats.Counter
}

func newDriverMetrics() *DriverMetrics {
	return &DriverMetrics{
		EventsDelivered: stats.NullCounter,
		EventsDropped:   stats.NullCounter,
		EventsQueued:    stats.NullCounter,
		Retries:         stats.NullCounter,
		Processed:       stats.NullCounter,
	}
}
