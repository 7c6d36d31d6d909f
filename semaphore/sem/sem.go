/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package sem bounds the number of workers running at once, used by the
// AF_SOCKET source driver to cap max_connections and by destination drivers
// to cap in-flight batches. A nbrSimultaneous of zero follows GOMAXPROCS, a
// positive value sets an exact weighted limit, a negative value removes the
// limit entirely.
package sem

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Sem is a bounded or unbounded worker gate. It embeds context.Context so a
// caller can select on Done() the same way it would on any cancellable
// context; DeferMain cancels that context.
type Sem interface {
	context.Context

	NewWorker() error
	NewWorkerTry() bool
	DeferWorker()
	WaitAll() error
	Weighted() int64
	DeferMain()
	New() Sem
}

// MaxSimultaneous is the default worker limit when none is given explicitly.
func MaxSimultaneous() int {
	return runtime.GOMAXPROCS(0)
}

// SetSimultaneous clamps n to [1, MaxSimultaneous()], falling back to
// MaxSimultaneous() for any n outside that range.
func SetSimultaneous(n int64) int64 {
	max := int64(MaxSimultaneous())
	if n < 1 || n > max {
		return max
	}
	return n
}

// New builds a Sem bound to ctx. nbrSimultaneous == 0 uses MaxSimultaneous(),
// > 0 sets an exact weighted limit, < 0 removes the limit.
func New(ctx context.Context, nbrSimultaneous int64) Sem {
	if nbrSimultaneous < 0 {
		return newWaitGroupSem(ctx)
	}
	if nbrSimultaneous == 0 {
		nbrSimultaneous = int64(MaxSimultaneous())
	}
	return newWeightedSem(ctx, nbrSimultaneous)
}

type weightedSem struct {
	context.Context
	cancel context.CancelFunc
	weight int64
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
}

func newWeightedSem(parent context.Context, weight int64) *weightedSem {
	ctx, cancel := context.WithCancel(parent)
	return &weightedSem{
		Context: ctx,
		cancel:  cancel,
		weight:  weight,
		sem:     semaphore.NewWeighted(weight),
	}
}

func (s *weightedSem) NewWorker() error {
	if err := s.sem.Acquire(s.Context, 1); err != nil {
		return err
	}
	s.wg.Add(1)
	return nil
}

func (s *weightedSem) NewWorkerTry() bool {
	if !s.sem.TryAcquire(1) {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *weightedSem) DeferWorker() {
	s.wg.Done()
	s.sem.Release(1)
}

func (s *weightedSem) WaitAll() error {
	return waitAll(s.Context, &s.wg)
}

func (s *weightedSem) Weighted() int64 { return s.weight }

func (s *weightedSem) DeferMain() { s.cancel() }

func (s *weightedSem) New() Sem { return newWeightedSem(s.Context, s.weight) }

type waitGroupSem struct {
	context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newWaitGroupSem(parent context.Context) *waitGroupSem {
	ctx, cancel := context.WithCancel(parent)
	return &waitGroupSem{Context: ctx, cancel: cancel}
}

func (s *waitGroupSem) NewWorker() error {
	s.wg.Add(1)
	return nil
}

func (s *waitGroupSem) NewWorkerTry() bool {
	s.wg.Add(1)
	return true
}

func (s *waitGroupSem) DeferWorker() { s.wg.Done() }

func (s *waitGroupSem) WaitAll() error {
	return waitAll(s.Context, &s.wg)
}

func (s *waitGroupSem) Weighted() int64 { return -1 }

func (s *waitGroupSem) DeferMain() { s.cancel() }

func (s *waitGroupSem) New() Sem { return newWaitGroupSem(s.Context) }

func waitAll(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
