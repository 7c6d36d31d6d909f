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

import "sync/atomic"

// SeqNumStore persists the shared sequence counter across a driver restart
// (spec §6 "<driver>.seqnum — shared sequence number"). A narrow seam, the
// same shape as afsocket's ReloadStore: a concrete implementation belongs to
// the not-yet-built persistent-state collaborator, not to this package.
type SeqNumStore interface {
	LoadSeqNum(key string) (int64, bool)
	StoreSeqNum(key string, v int64) error
}

// sequencer hands out per-message sequence numbers. With more than one
// worker the counter is shared and stepped atomically (spec §4.6 "atomic
// step if multi-worker, non-atomic if single worker"); with exactly one
// worker there is no contention, so a plain increment is used instead to
// match the original's uncontended fast path.
type sequencer struct {
	atomicStep bool
	v          int64
}

func newSequencer(numWorkers int, start int64) *sequencer {
	return &sequencer{atomicStep: numWorkers > 1, v: start}
}

func (s *sequencer) next() int64 {
	if s.atomicStep {
		return atomic.AddInt64(&s.v, 1)
	}
	s.v++
	return s.v
}

func (s *sequencer) current() int64 {
	if s.atomicStep {
		return atomic.LoadInt64(&s.v)
	}
	return s.v
}

// reset overwrites the counter, used once at Start to restore a persisted
// value before any worker goroutine is running.
func (s *sequencer) reset(v int64) {
	if s.atomicStep {
		atomic.StoreInt64(&s.v, v)
		return
	}
	s.v = v
}
