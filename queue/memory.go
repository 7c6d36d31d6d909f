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

package queue

import (
	"sync"

	"github.com/syslog-ng/logcore/stats"
)

// Memory is a bounded (or unbounded, when capacity <= 0) in-memory Queue: a
// single slice doubling as the unread region followed by the backlog region,
// addressed by two cursors (spec §3 "Queue", two concrete kinds: memory and
// disk; this is the memory one; diskqueue mirrors the same cursor discipline
// against a file).
type Memory struct {
	mu sync.Mutex

	capacity int // <= 0 means unbounded

	entries []Entry // backlogHead..tail, logically
	readPos int     // index into entries of the next unread entry
	ackPos  int     // index into entries of the oldest unacknowledged entry

	wakeup func()

	queued    stats.Counter
	processed stats.Counter
	dropped   stats.Counter
}

// NewMemory builds a Memory queue. capacity <= 0 means unbounded.
func NewMemory(capacity int) *Memory {
	return &Memory{capacity: capacity, queued: stats.NullCounter, processed: stats.NullCounter, dropped: stats.NullCounter}
}

// BindCounters attaches the queued/processed/dropped counters this queue
// reports through, typically registered by the owning driver under
// stats.KindLogPipe (spec §3 "Stats cluster ... logpipe").
func (m *Memory) BindCounters(queued, processed, dropped stats.Counter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued, m.processed, m.dropped = queued, processed, dropped
}

func (m *Memory) unreadLen() int {
	return len(m.entries) - m.readPos
}

func (m *Memory) backlogLen() int {
	return m.readPos - m.ackPos
}

// compact drops fully-acknowledged entries off the front once nothing else
// references them, keeping the backing slice from growing unbounded under
// sustained throughput.
func (m *Memory) compact() {
	if m.ackPos == 0 {
		return
	}
	m.entries = append([]Entry(nil), m.entries[m.ackPos:]...)
	m.readPos -= m.ackPos
	m.ackPos = 0
}

func (m *Memory) PushTail(e Entry) error {
	m.mu.Lock()
	if m.capacity > 0 && m.unreadLen()+m.backlogLen() >= m.capacity {
		m.mu.Unlock()
		return ErrQueueFull
	}
	m.entries = append(m.entries, e)
	m.queued.Inc()
	wakeup := m.wakeup
	m.wakeup = nil
	m.mu.Unlock()

	if wakeup != nil {
		wakeup()
	}
	return nil
}

func (m *Memory) PeekHead() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unreadLen() == 0 {
		return Entry{}, false
	}
	return m.entries[m.readPos], true
}

func (m *Memory) PopHead() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unreadLen() == 0 {
		return Entry{}, false
	}
	e := m.entries[m.readPos]
	m.readPos++
	return e, true
}

func (m *Memory) AckBacklog(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > m.backlogLen() {
		n = m.backlogLen()
	}
	m.ackPos += n
	m.processed.Add(int64(n))
	m.compact()
	return n
}

func (m *Memory) RewindBacklog(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > m.backlogLen() {
		n = m.backlogLen()
	}
	m.readPos -= n
	return n
}

func (m *Memory) RewindBacklogAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.backlogLen()
	m.readPos = m.ackPos
	return n
}

func (m *Memory) Length() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unreadLen()
}

func (m *Memory) BacklogLength() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backlogLen()
}

func (m *Memory) CheckItems(wakeup func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unreadLen() > 0 {
		return true
	}
	m.wakeup = wakeup
	return false
}
