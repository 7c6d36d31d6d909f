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

// Package tags implements the process-wide log-tag registry: a name<->id
// mapping backing the bitmap carried by each message (spec §3, §4.2
// tag-membership filter node).
package tags

import "sync"

// ID identifies a registered tag. IDs are assigned sequentially starting at 0
// and never reused within a process lifetime.
type ID uint32

// Set is a bitmap of tag ids. The zero Set has no tags set.
type Set struct {
	words []uint64
}

func wordIndex(id ID) (int, uint64) {
	return int(id / 64), uint64(1) << (id % 64)
}

// With returns a copy of s with id set.
func (s Set) With(id ID) Set {
	idx, bit := wordIndex(id)
	out := s.Clone()
	for len(out.words) <= idx {
		out.words = append(out.words, 0)
	}
	out.words[idx] |= bit
	return out
}

// Has reports whether id is set.
func (s Set) Has(id ID) bool {
	idx, bit := wordIndex(id)
	if idx >= len(s.words) {
		return false
	}
	return s.words[idx]&bit != 0
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := Set{words: make([]uint64, len(s.words))}
	copy(out.words, s.words)
	return out
}

// registry is the process-wide name<->id map guarded by a single mutex, per
// spec §5 ("Tag registry: one process-wide mutex around its name->id map").
type registry struct {
	mu     sync.Mutex
	byName map[string]ID
	byID   []string
}

var global = &registry{byName: make(map[string]ID)}

// Register returns the id for name, allocating a new one on first use.
func Register(name string) ID {
	global.mu.Lock()
	defer global.mu.Unlock()
	if id, ok := global.byName[name]; ok {
		return id
	}
	id := ID(len(global.byID))
	global.byName[name] = id
	global.byID = append(global.byID, name)
	return id
}

// Lookup returns the id for name without allocating one.
func Lookup(name string) (ID, bool) {
	global.mu.Lock()
	defer global.mu.Unlock()
	id, ok := global.byName[name]
	return id, ok
}

// Name returns the registered name for id, or "" if id is unknown.
func Name(id ID) string {
	global.mu.Lock()
	defer global.mu.Unlock()
	if int(id) >= len(global.byID) {
		return ""
	}
	return global.byID[id]
}

// Count returns the number of registered tags, for tests and diagnostics.
func Count() int {
	global.mu.Lock()
	defer global.mu.Unlock()
	return len(global.byID)
}
