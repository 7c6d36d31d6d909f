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

package control

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// HealthCheck tracks the last-activity timestamp of every registered
// component and answers whether each is within its staleness bound
// (supplemented feature, grounded on original_source's periodic
// healthcheck-stats.c sampling and the "missing data points" staleness
// pattern of the memorystore healthcheck).
type HealthCheck struct {
	mu         sync.Mutex
	lastBeat   map[string]time.Time
	staleAfter map[string]time.Duration
	defaultMax time.Duration
}

// NewHealthCheck builds a HealthCheck whose components are considered stale
// after defaultMax of silence unless overridden per-component.
func NewHealthCheck(defaultMax time.Duration) *HealthCheck {
	return &HealthCheck{
		lastBeat:   make(map[string]time.Time),
		staleAfter: make(map[string]time.Duration),
		defaultMax: defaultMax,
	}
}

// Register declares a component with its own staleness bound; pass 0 to use
// the default.
func (h *HealthCheck) Register(name string, maxSilence time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.staleAfter[name] = maxSilence
}

// Beat records that name performed useful work now; call it from each
// source/destination driver's hot path.
func (h *HealthCheck) Beat(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastBeat[name] = time.Now()
}

// Report renders one line per registered component and reports whether
// every one of them is within its staleness bound, for the HEALTHCHECK
// control-socket command.
func (h *HealthCheck) Report() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.staleAfter))
	for name := range h.staleAfter {
		names = append(names, name)
	}
	sort.Strings(names)

	healthy := true
	var b strings.Builder
	now := time.Now()
	for _, name := range names {
		bound := h.staleAfter[name]
		if bound <= 0 {
			bound = h.defaultMax
		}
		beat, seen := h.lastBeat[name]
		status := "stale"
		if seen && now.Sub(beat) <= bound {
			status = "ok"
		} else {
			healthy = false
		}
		fmt.Fprintf(&b, "%s=%s\n", name, status)
	}
	return strings.TrimRight(b.String(), "\n"), healthy
}

// Healthcheck adapts Report into Hooks.Healthcheck.
func (h *HealthCheck) Healthcheck() (string, bool) {
	return h.Report()
}
