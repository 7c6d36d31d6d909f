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

// Package message implements the opaque log record shared by every stage of
// the pipeline: filters, queues, sources and destinations all operate on the
// same Message value, never on a driver-private struct.
package message

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	libtag "github.com/syslog-ng/logcore/tags"
)

// ValueType is the type tag carried alongside every named value of a Message.
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeInteger
	TypeDouble
	TypeBoolean
	TypeDatetime
	TypeJSON
	TypeList
	TypeNull
	TypeBytes
	TypeProtobuf
)

// Facility is the 5-bit syslog facility carried in Priority.
type Facility uint8

// Severity is the 3-bit syslog severity carried in Priority.
type Severity uint8

// Priority packs facility (bits 3..7) and severity (bits 0..2), mirroring the
// on-wire syslog PRI value: facility*8 + severity.
type Priority uint16

// NewPriority packs a facility/severity pair into a Priority.
func NewPriority(fac Facility, sev Severity) Priority {
	return Priority(uint16(fac&0x1f)<<3 | uint16(sev&0x07))
}

// Facility unpacks the facility component of the priority.
func (p Priority) Facility() Facility { return Facility((p >> 3) & 0x1f) }

// Severity unpacks the severity component of the priority.
func (p Priority) Severity() Severity { return Severity(p & 0x07) }

// Value is a named value attached to a Message: a byte-string payload tagged
// with its logical type. Numeric/boolean/datetime values are kept in their
// textual representation and parsed lazily by comparison code that needs them.
type Value struct {
	Type ValueType
	Raw  []byte
}

// IsStringLike reports whether Type is one of the byte-comparable kinds used
// by the filter engine's type-aware comparison mode (spec §4.2).
func (v Value) IsStringLike() bool {
	switch v.Type {
	case TypeString, TypeJSON, TypeList, TypeBytes, TypeProtobuf:
		return true
	default:
		return false
	}
}

// PathOptions travels alongside a Message through the pipeline, carrying
// flow-control and filter-match bookkeeping that does not belong on the
// Message itself (the message may be shared by many consumers at once).
type PathOptions struct {
	// FlowControlRequested marks that the producer of this message wants an
	// ack/rewind roundtrip before it accepts more input (spec glossary:
	// Path options).
	FlowControlRequested bool
	// MatchResult holds the last filter evaluation result observed for this
	// message/path pair.
	MatchResult bool
}

// record is the mutable payload shared by every reference to a Message.
type record struct {
	mu       sync.RWMutex
	priority Priority
	recvTime time.Time
	stamp    time.Time
	srcAddr  net.Addr
	values   map[string]Value
	tagSet   libtag.Set
	refs     int32
	writable bool
}

// Message is a shared-by-reference, copy-on-write log record (spec §3).
//
// A Message obtained from a source always starts writable (refs == 1).
// Once shared (e.g. handed to several destination workers), callers must
// call MakeWritable before mutating it; MakeWritable returns the same
// Message if it is still exclusively owned, or a fresh copy otherwise.
type Message struct {
	r *record
}

// New creates a fresh, exclusively-owned Message.
func New(priority Priority, recv, stamp time.Time, src net.Addr) Message {
	return Message{r: &record{
		priority: priority,
		recvTime: recv,
		stamp:    stamp,
		srcAddr:  src,
		values:   make(map[string]Value, 8),
		tagSet:   libtag.Set{},
		refs:     1,
		writable: true,
	}}
}

// IsNil reports whether m is the zero Message (no backing record).
func (m Message) IsNil() bool { return m.r == nil }

// Ref increments the reference count and returns m, mirroring the source's
// intrusive ref/unref discipline (spec §9 design notes).
func (m Message) Ref() Message {
	if m.r != nil {
		atomic.AddInt32(&m.r.refs, 1)
	}
	return m
}

// Unref decrements the reference count. The Go garbage collector reclaims
// the backing record's memory once unreachable; Unref exists so callers can
// reason about exclusive ownership (RefCount() == 1) the same way the
// reference-counted original does.
func (m Message) Unref() {
	if m.r != nil {
		atomic.AddInt32(&m.r.refs, -1)
	}
}

// RefCount returns the current reference count.
func (m Message) RefCount() int32 {
	if m.r == nil {
		return 0
	}
	return atomic.LoadInt32(&m.r.refs)
}

// IsWritable reports whether the caller may mutate this Message in place.
func (m Message) IsWritable() bool {
	return m.r != nil && m.RefCount() <= 1
}

// MakeWritable returns a Message safe to mutate in place: either m itself
// (if exclusively owned) or a deep copy with refs reset to 1.
func (m Message) MakeWritable() Message {
	if m.IsWritable() {
		return m
	}
	m.r.mu.RLock()
	defer m.r.mu.RUnlock()

	cp := &record{
		priority: m.r.priority,
		recvTime: m.r.recvTime,
		stamp:    m.r.stamp,
		srcAddr:  m.r.srcAddr,
		values:   make(map[string]Value, len(m.r.values)),
		tagSet:   m.r.tagSet.Clone(),
		refs:     1,
		writable: true,
	}
	for k, v := range m.r.values {
		raw := make([]byte, len(v.Raw))
		copy(raw, v.Raw)
		cp.values[k] = Value{Type: v.Type, Raw: raw}
	}
	return Message{r: cp}
}

// Priority returns the packed facility/severity priority.
func (m Message) Priority() Priority { return m.r.priority }

// SetPriority overwrites the priority; the caller must hold a writable Message.
func (m Message) SetPriority(p Priority) { m.r.priority = p }

// ReceivedAt returns the time the message was accepted by its source.
func (m Message) ReceivedAt() time.Time { return m.r.recvTime }

// Timestamp returns the message's own timestamp field (e.g. parsed from the
// wire payload), which may differ from ReceivedAt.
func (m Message) Timestamp() time.Time { return m.r.stamp }

// SourceAddr returns the network address the message arrived from, or nil.
func (m Message) SourceAddr() net.Addr { return m.r.srcAddr }

// GetValue looks up a named value.
func (m Message) GetValue(name string) (Value, bool) {
	m.r.mu.RLock()
	defer m.r.mu.RUnlock()
	v, ok := m.r.values[name]
	return v, ok
}

// SetValue sets a named value; the caller must hold a writable Message.
func (m Message) SetValue(name string, v Value) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	m.r.values[name] = v
}

// DeleteValue removes a named value if present.
func (m Message) DeleteValue(name string) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	delete(m.r.values, name)
}

// ForEachValue calls fn once per named value currently set on m, in no
// particular order. It exists so callers outside this package (the disk
// queue's serializer, mainly) can walk every value without this package
// exporting its internal storage representation.
func (m Message) ForEachValue(fn func(name string, v Value)) {
	m.r.mu.RLock()
	defer m.r.mu.RUnlock()
	for name, v := range m.r.values {
		fn(name, v)
	}
}

// Tags returns the message's tag set.
func (m Message) Tags() libtag.Set { return m.r.tagSet }

// AddTag sets tag id in the message's tag set; the caller must hold a
// writable Message.
func (m Message) AddTag(id libtag.ID) { m.r.tagSet = m.r.tagSet.With(id) }

// HasTag reports whether the message carries the given tag id.
func (m Message) HasTag(id libtag.ID) bool { return m.r.tagSet.Has(id) }
