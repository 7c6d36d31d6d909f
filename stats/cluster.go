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

package stats

import "sync/atomic"

// Level gates whether a counter registration is honored at all (spec §4.1,
// option `stats(level(0..3))`).
type Level uint8

const (
	LevelNormal Level = iota
	LevelDebug
	LevelVerbose
	LevelTrace
)

// Kind distinguishes the two cluster shapes from spec §3.
type Kind uint8

const (
	// KindSingleValue clusters hold exactly one counter, addressed by CounterValue.
	KindSingleValue Kind = iota
	// KindLogPipe clusters hold the fixed named-counter set of a pipe element.
	KindLogPipe
)

// CounterID addresses one counter slot within a Cluster.
type CounterID uint8

const (
	CounterValue CounterID = iota // the sole slot of a KindSingleValue cluster
	CounterDropped
	CounterProcessed
	CounterQueued
	CounterSuppressed
	CounterStamp
	CounterMemoryUsage
	CounterDiscarded
	CounterMatched
	CounterNotMatched
	CounterWritten
)

// Unit records the physical unit a counter's value is expressed in, consulted
// by the Prometheus exporter's unit conversion (spec §4.1).
type Unit uint8

const (
	UnitNone Unit = iota
	UnitBytesKiB
	UnitBytesMiB
	UnitBytesGiB
	UnitSeconds
	UnitMinutes
	UnitHours
	UnitMilliseconds
	UnitNanoseconds
)

// FrameOfReference tags a counter whose meaning depends on query time, e.g.
// `output_event_delay_sample_age_seconds` (spec §4.6).
type FrameOfReference uint8

const (
	FrameAbsolute FrameOfReference = iota
	FrameRelativeToTimeOfQuery
)

// Cluster is the unit of registration: one or more related counters under a
// single Key (spec §3 "Stats cluster").
type Cluster struct {
	key      Key
	kind     Kind
	dynamic  bool
	useCount int32
	liveness uint64 // bitmap: bit i set iff counters[i] was ever written

	counters map[CounterID]Counter
	units    map[CounterID]Unit
	frames   map[CounterID]FrameOfReference
}

func newCluster(key Key, kind Kind, dynamic bool) *Cluster {
	return &Cluster{
		key:      key,
		kind:     kind,
		dynamic:  dynamic,
		counters: make(map[CounterID]Counter, 4),
		units:    make(map[CounterID]Unit, 4),
		frames:   make(map[CounterID]FrameOfReference, 4),
	}
}

// Key returns the cluster's canonical key.
func (c *Cluster) Key() Key { return c.key }

// Kind returns whether this is a single-value or logpipe cluster.
func (c *Cluster) Kind() Kind { return c.kind }

// Dynamic reports whether the cluster was created through the dynamic
// registration path and is thus subject to orphan collection.
func (c *Cluster) Dynamic() bool { return c.dynamic }

// UseCount returns the current reference count.
func (c *Cluster) UseCount() int32 { return atomic.LoadInt32(&c.useCount) }

// Orphaned reports whether the use-count has reached zero (spec §3).
func (c *Cluster) Orphaned() bool { return c.UseCount() <= 0 }

// Counter returns the counter for id, or nil if that slot was never registered.
func (c *Cluster) Counter(id CounterID) Counter { return c.counters[id] }

// SetUnit records the physical unit of a counter slot for export purposes.
func (c *Cluster) SetUnit(id CounterID, u Unit) { c.units[id] = u }

// Unit returns the physical unit of a counter slot.
func (c *Cluster) Unit(id CounterID) Unit { return c.units[id] }

// SetFrameOfReference marks a counter slot as time-relative.
func (c *Cluster) SetFrameOfReference(id CounterID, f FrameOfReference) { c.frames[id] = f }

// FrameOfReference returns the frame-of-reference of a counter slot.
func (c *Cluster) FrameOfReference(id CounterID) FrameOfReference { return c.frames[id] }

// markLive flags id as having been written at least once; used by CSV export's
// active/orphaned state column and the liveness bitmap of spec §3.
func (c *Cluster) markLive(id CounterID) {
	if id >= 64 {
		return
	}
	bit := uint64(1) << uint(id)
	for {
		old := atomic.LoadUint64(&c.liveness)
		if old&bit != 0 {
			return
		}
		if atomic.CompareAndSwapUint64(&c.liveness, old, old|bit) {
			return
		}
	}
}

// IsLive reports whether counter id has ever been written.
func (c *Cluster) IsLive(id CounterID) bool {
	if id >= 64 {
		return false
	}
	return atomic.LoadUint64(&c.liveness)&(uint64(1)<<uint(id)) != 0
}

// CounterIDs returns the slots currently registered on this cluster, for
// iteration by exporters.
func (c *Cluster) CounterIDs() []CounterID {
	out := make([]CounterID, 0, len(c.counters))
	for id := range c.counters {
		out = append(out, id)
	}
	return out
}
