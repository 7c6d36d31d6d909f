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

package persist

import "sync"

// Memory is a process-local Store: state survives a driver restart within
// the same process (useful for tests and for a config reload that re-execs
// nothing, just swaps Driver instances) but not a full process restart.
type Memory struct {
	mu sync.RWMutex
	m  map[string]int64
}

// NewMemory builds an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{m: map[string]int64{}}
}

func (s *Memory) LoadSeqNum(key string) (int64, bool) {
	return s.get(namespace(kindSeqNum, key))
}

func (s *Memory) StoreSeqNum(key string, v int64) error {
	s.set(namespace(kindSeqNum, key), v)
	return nil
}

func (s *Memory) FetchListenFD(key string) (int, bool) {
	v, ok := s.get(namespace(kindListenFD, key))
	return int(v), ok
}

func (s *Memory) StoreListenFD(key string, fd int) error {
	s.set(namespace(kindListenFD, key), int64(fd))
	return nil
}

func (s *Memory) Close() error { return nil }

func (s *Memory) get(key string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory) set(key string, v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = v
}
