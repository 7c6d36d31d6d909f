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

// Package worker implements the threaded destination driver (spec §4.6): a
// fixed pool of cooperative per-worker event loops, each owning its own
// queue, routed to by partition key hash or round-robin.
package worker

import (
	"time"

	"github.com/syslog-ng/logcore/message"
)

// SeqNumMode controls whether and how a worker assigns a per-message
// sequence number before handing it to Insert (spec §4.6 "Insert loop").
type SeqNumMode uint8

const (
	// SeqNumEnabled numbers locally-generated messages only.
	SeqNumEnabled SeqNumMode = iota
	// SeqNumDisabled skips sequence numbering entirely.
	SeqNumDisabled
	// SeqNumAll numbers every message, including ones not locally generated.
	SeqNumAll
)

// PartitionKeyFunc extracts a partition key from a message. A template
// expression language is out of scope here; callers wire in whatever key
// extraction their configuration needs (a field accessor, a static
// template render from another module, etc.) the same way afsocket takes
// an injectable HostsAccessFunc.
type PartitionKeyFunc func(m message.Message) (key string, ok bool)

// Config carries one destination driver's worker-pool parameters.
type Config struct {
	// NumWorkers is the size of the worker pool.
	NumWorkers int

	// PartitionKey routes a message to a worker by hash(key) % NumWorkers.
	// Nil means round-robin.
	PartitionKey PartitionKeyFunc

	// FlushOnKeyChange flushes the pending batch when the partition key
	// changes between consecutive messages on the same worker (spec §4.6
	// "logthrdestdrv.c partition-key-change flush": a nil/empty key never
	// triggers this, only an actual change does).
	FlushOnKeyChange bool

	// BatchLines is the batch size threshold; 0 or 1 disables batching
	// (every insert flushes immediately).
	BatchLines int

	// BatchTimeout bounds how long a partially-filled batch waits before a
	// time-based flush.
	BatchTimeout time.Duration

	// TimeReopen is the delay before a reconnect attempt after a failed
	// connect or a DROP/ERROR/NOT_CONNECTED result.
	TimeReopen time.Duration

	// RetriesMax bounds consecutive ResultRetry outcomes before the driver
	// treats the batch as NOT_CONNECTED.
	RetriesMax int

	// RetriesOnErrorMax bounds consecutive ResultError outcomes before the
	// driver drops the batch outright.
	RetriesOnErrorMax int

	// SeqNum selects the sequence-numbering mode.
	SeqNum SeqNumMode

	// MaxInFlightBatches caps how many Insert/Flush calls may be in flight
	// across the whole worker pool at once; 0 means unbounded.
	MaxInFlightBatches int

	// RewoundBatchSize bounds how many consecutive RETRY replays of the same
	// head-of-queue message one do_work cycle will absorb before yielding,
	// avoiding an unbounded loop against a persistently-failing record
	// (spec §4.6 "rewound_batch_size").
	RewoundBatchSize int
}

const (
	defaultTimeReopen        = 10 * time.Second
	defaultBatchTimeout      = time.Second
	defaultRetriesMax        = 3
	defaultRetriesOnErrorMax = 3
	defaultRewoundBatchSize  = 64
)

func (c *Config) setDefaults() {
	if c.NumWorkers <= 0 {
		c.NumWorkers = 1
	}
	if c.TimeReopen <= 0 {
		c.TimeReopen = defaultTimeReopen
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = defaultBatchTimeout
	}
	if c.RetriesMax <= 0 {
		c.RetriesMax = defaultRetriesMax
	}
	if c.RetriesOnErrorMax <= 0 {
		c.RetriesOnErrorMax = defaultRetriesOnErrorMax
	}
	if c.RewoundBatchSize <= 0 {
		c.RewoundBatchSize = defaultRewoundBatchSize
	}
}
