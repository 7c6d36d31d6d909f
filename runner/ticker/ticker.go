/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package ticker runs a function on a fixed interval under a cancellable
// context, used throughout the engine for periodic work: stats export
// frequency, disk-queue free-space polling, destination batch-flush timers
// and dynamic-window reallocation ticks.
package ticker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	errpool "github.com/syslog-ng/logcore/errors/pool"
)

const (
	defaultDuration = 30 * time.Second
	minDuration     = time.Millisecond
)

// Func is invoked on every tick. tck is the underlying time.Ticker, exposed
// so a caller can inspect or reset it; most callers ignore it.
type Func func(ctx context.Context, tck *time.Ticker) error

// Ticker runs Func periodically until stopped or its context is cancelled.
type Ticker interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

type ticker struct {
	interval time.Duration
	fct      Func

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	running   atomic.Bool
	startedAt atomic.Int64 // UnixNano; 0 when stopped

	errs errpool.Pool
}

// New creates a Ticker that calls fct every d. A d below one millisecond
// falls back to a 30 second default rather than busy-looping.
func New(d time.Duration, fct Func) Ticker {
	if d < minDuration {
		d = defaultDuration
	}
	return &ticker{interval: d, fct: fct, errs: errpool.New()}
}

func (t *ticker) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("ticker: nil context")
	}

	if t.running.Load() {
		if err := t.Stop(ctx); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.errs.Clear()
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	done := make(chan struct{})
	t.done = done
	t.startedAt.Store(time.Now().UnixNano())
	t.running.Store(true)

	go t.loop(runCtx, done)
	return nil
}

func (t *ticker) Stop(context.Context) error {
	t.mu.Lock()
	if !t.running.Load() {
		t.mu.Unlock()
		return nil
	}
	cancel := t.cancel
	done := t.done
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	t.mu.Lock()
	t.cancel = nil
	t.done = nil
	t.mu.Unlock()
	return nil
}

func (t *ticker) Restart(ctx context.Context) error {
	if err := t.Stop(ctx); err != nil {
		return err
	}
	return t.Start(ctx)
}

func (t *ticker) IsRunning() bool { return t.running.Load() }

func (t *ticker) Uptime() time.Duration {
	start := t.startedAt.Load()
	if start == 0 {
		return 0
	}
	return time.Since(time.Unix(0, start))
}

func (t *ticker) ErrorsLast() error { return t.errs.Last() }

func (t *ticker) ErrorsList() []error { return t.errs.Slice() }

func (t *ticker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	tck := time.NewTicker(t.interval)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			t.running.Store(false)
			t.startedAt.Store(0)
			return
		case <-tck.C:
			t.runOnce(ctx, tck)
		}
	}
}

func (t *ticker) runOnce(ctx context.Context, tck *time.Ticker) {
	defer func() {
		if r := recover(); r != nil {
			t.errs.Add(fmt.Errorf("ticker: recovered from panic: %v", r))
		}
	}()
	if t.fct == nil {
		return
	}
	if err := t.fct(ctx, tck); err != nil {
		t.errs.Add(err)
	}
}
