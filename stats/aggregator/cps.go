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

package aggregator

import (
	"sync"
	"time"
)

// window accumulates per-minute samples over a bounded span, exposing an
// averaged rate across that span.
type window struct {
	capacity int
	samples  []int64 // delta-per-minute samples, oldest first
}

func newWindow(capacity int) *window {
	return &window{capacity: capacity}
}

func (w *window) push(delta int64) {
	w.samples = append(w.samples, delta)
	if len(w.samples) > w.capacity {
		w.samples = w.samples[len(w.samples)-w.capacity:]
	}
}

func (w *window) averagePerSecond() int64 {
	if len(w.samples) == 0 {
		return 0
	}
	var sum int64
	for _, s := range w.samples {
		sum += s
	}
	// each sample is a per-minute delta; average over 60s windows.
	return sum / int64(len(w.samples)) / 60
}

// ChangePerSecond samples a source counter once a minute and maintains three
// windows — last hour, last 24 hours, since start — each exposing an
// averaged rate (spec §4.1). When the source counter stops moving it
// self-unregisters.
type ChangePerSecond struct {
	mu           sync.Mutex
	source       func() int64
	lastValue    int64
	lastSampleAt time.Time
	initialized  bool

	hour    *window // 60 one-minute samples
	day     *window // 1440 one-minute samples
	sinceStart struct {
		total int64
		start time.Time
	}

	unregistered bool
	stallLimit   int
	stallCount   int
}

// NewChangePerSecond creates an aggregator sampling source() every Tick call
// spaced >= one minute apart. stallLimit is how many consecutive stalled
// samples (no movement) trigger self-unregistration; 0 disables
// self-unregistration.
func NewChangePerSecond(source func() int64, stallLimit int) *ChangePerSecond {
	return &ChangePerSecond{
		source:     source,
		hour:       newWindow(60),
		day:        newWindow(1440),
		stallLimit: stallLimit,
	}
}

func (c *ChangePerSecond) Insert(int64) {} // fed via Tick sampling the source, not Insert

func (c *ChangePerSecond) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unregistered {
		return
	}

	if !c.initialized {
		c.lastValue = c.source()
		c.lastSampleAt = now
		c.sinceStart.start = now
		c.initialized = true
		return
	}

	if now.Sub(c.lastSampleAt) < time.Minute {
		return
	}

	cur := c.source()
	delta := cur - c.lastValue
	c.lastValue = cur
	c.lastSampleAt = now

	c.hour.push(delta)
	c.day.push(delta)
	c.sinceStart.total += delta

	if delta == 0 {
		c.stallCount++
		if c.stallLimit > 0 && c.stallCount >= c.stallLimit {
			c.unregistered = true
		}
	} else {
		c.stallCount = 0
	}
}

// Output returns the last-hour averaged rate, matching the teacher
// convention of exposing the shortest window as the "current" value; callers
// needing the day/since-start windows use RatePerSecond directly.
func (c *ChangePerSecond) Output() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hour.averagePerSecond()
}

// RatePerSecond returns the averaged rate for span, one of "hour", "day" or
// "start".
func (c *ChangePerSecond) RatePerSecond(span string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch span {
	case "hour":
		return c.hour.averagePerSecond()
	case "day":
		return c.day.averagePerSecond()
	case "start":
		elapsed := time.Since(c.sinceStart.start).Seconds()
		if elapsed <= 0 {
			return 0
		}
		return int64(float64(c.sinceStart.total) / elapsed)
	default:
		return 0
	}
}

func (c *ChangePerSecond) Unregistered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unregistered
}
