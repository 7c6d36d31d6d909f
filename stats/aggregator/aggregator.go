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

// Package aggregator implements the three derived-counter aggregators of
// spec §4.1: maximum, average and change-per-second.
package aggregator

import (
	"sync"
	"time"
)

// Aggregator is a derived counter fed by Insert and sampled by Output.
type Aggregator interface {
	// Insert feeds one sample into the aggregator.
	Insert(v int64)
	// Output returns the current derived value.
	Output() int64
	// Tick advances time-based aggregators (change-per-second); a no-op for
	// maximum/average.
	Tick(now time.Time)
	// Unregistered reports whether the aggregator has self-unregistered
	// because its source counter stopped moving (change-per-second only).
	Unregistered() bool
}

// Maximum implements `output = max(output, insert)` via compare-and-set
// (spec §4.1).
type Maximum struct {
	mu     sync.Mutex
	output int64
}

func NewMaximum() *Maximum { return &Maximum{} }

func (m *Maximum) Insert(v int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v > m.output {
		m.output = v
	}
}

func (m *Maximum) Output() int64 { m.mu.Lock(); defer m.mu.Unlock(); return m.output }
func (m *Maximum) Tick(time.Time) {}
func (m *Maximum) Unregistered() bool { return false }

// Average implements `output = (sum + x) / (n + 1)` then `sum += x; n += 1`
// (spec §4.1).
type Average struct {
	mu  sync.Mutex
	sum int64
	n   int64
}

func NewAverage() *Average { return &Average{} }

func (a *Average) Insert(v int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sum += v
	a.n++
}

func (a *Average) Output() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.n == 0 {
		return 0
	}
	return a.sum / a.n
}

func (a *Average) Tick(time.Time) {}
func (a *Average) Unregistered() bool { return false }
