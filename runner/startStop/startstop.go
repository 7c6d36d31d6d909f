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

// Package startStop wraps a pair of (start, stop) functions into a
// restartable component, used for every long-lived driver in the engine: a
// source listener's accept loop, a destination worker's event loop, the
// disk-queue directory watcher.
package startStop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	errpool "github.com/syslog-ng/logcore/errors/pool"
)

// Func is a blocking start or stop routine. A start Func is expected to run
// until ctx is cancelled; a stop Func performs a bounded shutdown action and
// returns.
type Func func(ctx context.Context) error

// StartStop is a restartable component built from a pair of start/stop
// functions (spec §9 "component lifecycle").
type StartStop interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

type runner struct {
	startFn Func
	stopFn  Func

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	running   atomic.Bool
	startedAt atomic.Int64 // UnixNano; 0 when stopped

	errs errpool.Pool
}

// New builds a StartStop around start and stop. Either may be nil.
func New(start, stop Func) StartStop {
	return &runner{startFn: start, stopFn: stop, errs: errpool.New()}
}

func (r *runner) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("startStop: nil context")
	}

	if r.running.Load() {
		if err := r.Stop(ctx); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.errs.Clear()
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	done := make(chan struct{})
	r.done = done
	r.startedAt.Store(time.Now().UnixNano())
	r.running.Store(true)

	go r.run(runCtx, done)
	return nil
}

func (r *runner) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		if rec := recover(); rec != nil {
			r.errs.Add(fmt.Errorf("startStop: recovered from panic: %v", rec))
		}
		r.running.Store(false)
		r.startedAt.Store(0)
	}()

	if r.startFn == nil {
		<-ctx.Done()
		return
	}
	if err := r.startFn(ctx); err != nil {
		r.errs.Add(err)
	}
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running.Load() {
		r.mu.Unlock()
		return nil
	}
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	var stopErr error
	if r.stopFn != nil {
		if err := r.stopFn(ctx); err != nil {
			stopErr = err
			r.errs.Add(err)
		}
	}

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	r.mu.Lock()
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	return stopErr
}

func (r *runner) Restart(ctx context.Context) error {
	if err := r.Stop(ctx); err != nil {
		return err
	}
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool { return r.running.Load() }

func (r *runner) Uptime() time.Duration {
	start := r.startedAt.Load()
	if start == 0 {
		return 0
	}
	return time.Since(time.Unix(0, start))
}

func (r *runner) ErrorsLast() error { return r.errs.Last() }

func (r *runner) ErrorsList() []error { return r.errs.Slice() }
