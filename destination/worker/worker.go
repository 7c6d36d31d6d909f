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

package worker

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/queue"
	"github.com/syslog-ng/logcore/semaphore/sem"
)

// worker is one cooperative per-worker event loop (spec §4.6 "Per-worker
// event loop"). All mutable state below is touched only from the goroutine
// running loop(), so none of it needs its own lock.
type worker struct {
	id        int
	q         queue.Queue
	inserter  Inserter
	cfg       *Config
	log       logger.Logger
	seq       *sequencer
	wm        *WorkerMetrics
	dm        *DriverMetrics
	admission sem.Sem // shared across the driver's workers; nil means unbounded

	wakeupCh   chan struct{}
	shutdownCh chan struct{}
	done       chan struct{}

	connected        bool
	suspendAttempts  int
	lastKey          string
	hasLastKey       bool
	lastFlushTime    time.Time
	pendingBatch     int
	rewoundBudget    int
	retriesCounter   int
	retriesOnErrCtr  int
	lastDelaySampled time.Time

	reconnectTimer *time.Timer
	flushTimer     *time.Timer
}

func newWorker(id int, q queue.Queue, inserter Inserter, cfg *Config, seq *sequencer, wm *WorkerMetrics, dm *DriverMetrics, admission sem.Sem, log logger.Logger) *worker {
	return &worker{
		id:            id,
		q:             q,
		inserter:      inserter,
		cfg:           cfg,
		log:           log,
		seq:           seq,
		wm:            wm,
		dm:            dm,
		admission:     admission,
		wakeupCh:      make(chan struct{}, 1),
		shutdownCh:    make(chan struct{}),
		done:          make(chan struct{}),
		lastFlushTime: time.Now(),
	}
}

// wakeup posts the wake_up event (spec §4.6); it is the callback handed to
// queue.CheckItems and is safe to call from any goroutine.
func (w *worker) wakeup() {
	select {
	case w.wakeupCh <- struct{}{}:
	default:
	}
}

func (w *worker) requestShutdown() {
	close(w.shutdownCh)
}

// run is the worker's single goroutine: a cooperative scheduler reacting to
// wake_up, shutdown, reconnect_timer and flush_timer. The throttle_timer
// event has no counterpart here: it exists upstream to let check_items hand
// back a timeout_msec the caller should wait before polling again, but this
// package's CheckItems reports readiness only and wakes the worker itself on
// the next push, so there is nothing for a throttle timer to schedule.
func (w *worker) run(ctx context.Context) {
	defer close(w.done)
	defer w.stopReconnect()
	defer w.stopFlush()

	w.wakeup() // do_work once at startup so a pre-filled queue drains promptly

	for {
		var reconnectC, flushC <-chan time.Time
		if w.reconnectTimer != nil {
			reconnectC = w.reconnectTimer.C
		}
		if w.flushTimer != nil {
			flushC = w.flushTimer.C
		}

		select {
		case <-ctx.Done():
			return
		case <-w.shutdownCh:
			w.onShutdown(ctx)
			return
		case <-w.wakeupCh:
			w.doWork(ctx)
		case <-reconnectC:
			w.reconnectTimer = nil
			w.doWork(ctx)
		case <-flushC:
			w.flushTimer = nil
			w.flush(ctx, FlushNormal)
		}
	}
}

// doWork is one do_work_task invocation (spec §4.6).
func (w *worker) doWork(ctx context.Context) {
	if !w.connected {
		if err := w.inserter.Connect(ctx); err != nil {
			w.log.Warning("worker: connect failed", err)
			w.suspend()
			return
		}
		w.connected = true
		w.suspendAttempts = 0
		w.wm.Unreachable.Set(0)
	}

	if w.q.CheckItems(w.wakeup) {
		w.insertLoop(ctx)
		if w.dueToFlush() {
			w.flush(ctx, FlushNormal)
		}
		return
	}

	if w.cfg.BatchLines > 1 && w.pendingBatch > 0 {
		if w.dueToFlush() {
			w.flush(ctx, FlushNormal)
			return
		}
		remaining := w.cfg.BatchTimeout - time.Since(w.lastFlushTime)
		if remaining < 0 {
			remaining = 0
		}
		w.scheduleFlush(remaining)
	}
}

// insertLoop is spec §4.6's "Insert loop": pop, sequence, insert, translate
// the result, repeat until the queue drains, a suspend condition fires, or
// the per-cycle rewind budget runs out.
func (w *worker) insertLoop(ctx context.Context) {
	w.rewoundBudget = w.cfg.RewoundBatchSize

	for {
		head, ok := w.q.PeekHead()
		if !ok {
			return
		}

		if w.cfg.FlushOnKeyChange && w.cfg.PartitionKey != nil {
			if key, hasKey := w.cfg.PartitionKey(head.Message); hasKey {
				if w.hasLastKey && key != w.lastKey {
					w.flush(ctx, FlushNormal)
				}
				w.lastKey, w.hasLastKey = key, true
			}
		}

		entry, ok := w.q.PopHead()
		if !ok {
			return
		}

		w.assignSeqNum(&entry)
		w.sampleDelay(entry)

		if w.admission != nil {
			_ = w.admission.NewWorker()
		}
		result := w.inserter.Insert(ctx, []queue.Entry{entry})
		if w.admission != nil {
			w.admission.DeferWorker()
		}

		switch result {
		case ResultSuccess:
			w.q.AckBacklog(1)
			w.dm.EventsDelivered.Inc()
			w.dm.Processed.Inc()
			w.retriesOnErrCtr = 0

		case ResultDrop:
			w.q.AckBacklog(1)
			w.dm.EventsDropped.Inc()
			w.dm.Processed.Inc()
			w.disconnect()
			w.suspend()
			return

		case ResultError:
			w.retriesOnErrCtr++
			w.dm.Retries.Inc()
			if w.retriesOnErrCtr >= w.cfg.RetriesOnErrorMax {
				w.q.AckBacklog(1)
				w.dm.EventsDropped.Inc()
				w.dm.Processed.Inc()
				w.retriesOnErrCtr = 0
				continue
			}
			w.q.RewindBacklog(1)
			w.disconnect()
			w.suspend()
			return

		case ResultNotConnected:
			w.retriesCounter = 0
			w.q.RewindBacklog(1)
			w.disconnect()
			w.suspend()
			return

		case ResultQueued:
			w.pendingBatch++
			w.dm.EventsQueued.Inc()
			continue

		case ResultExplicitAckMgmt:
			// the Inserter already called ack/rewind on w.q itself.

		case ResultRetry:
			w.retriesCounter++
			w.dm.Retries.Inc()
			if w.retriesCounter >= w.cfg.RetriesMax {
				w.retriesCounter = 0
				w.q.RewindBacklog(1)
				w.disconnect()
				w.suspend()
				return
			}
			w.q.RewindBacklog(1)
			w.rewoundBudget--
			if w.rewoundBudget <= 0 {
				return
			}
			continue
		}

		if w.cfg.BatchLines > 1 && w.pendingBatch >= w.cfg.BatchLines {
			w.flush(ctx, FlushNormal)
		}
	}
}

// flush runs the driver-specific flush and applies the same result
// translation as insert (spec §4.6 "Flush"): a successful flush acks the
// whole accumulated batch in one step, since QUEUED inserts never ack
// individually.
func (w *worker) flush(ctx context.Context, mode FlushMode) {
	if w.pendingBatch == 0 {
		return
	}

	n := w.pendingBatch
	result := w.inserter.Flush(ctx, mode)
	switch result {
	case ResultSuccess:
		w.q.AckBacklog(n)
		w.dm.EventsDelivered.Add(int64(n))
		w.dm.Processed.Add(int64(n))
	case ResultDrop:
		w.q.AckBacklog(n)
		w.dm.EventsDropped.Add(int64(n))
		w.dm.Processed.Add(int64(n))
		w.disconnect()
		w.suspend()
	case ResultExplicitAckMgmt:
		// the Inserter already called ack/rewind on w.q itself.
	case ResultNotConnected, ResultError, ResultRetry:
		w.q.RewindBacklog(n)
		w.disconnect()
		w.suspend()
	}

	w.pendingBatch = 0
	w.lastFlushTime = time.Now()
}

func (w *worker) dueToFlush() bool {
	if w.cfg.BatchLines <= 1 {
		return true
	}
	return time.Since(w.lastFlushTime) >= w.cfg.BatchTimeout
}

func (w *worker) assignSeqNum(e *queue.Entry) {
	if w.cfg.SeqNum == SeqNumDisabled {
		return
	}
	if w.cfg.SeqNum == SeqNumEnabled && e.PathOptions.FlowControlRequested {
		// Not locally generated (flow control was requested by an upstream
		// hop) and seqnum-all is off: skip, matching spec §4.6.
		return
	}
	n := w.seq.next()
	e.Message.SetValue("SEQNUM", message.Value{Type: message.TypeInteger, Raw: []byte(strconv.FormatInt(n, 10))})
}

// sampleDelay records the receive-to-process delay into
// output_event_delay_sample_seconds, bounded to once per wall-clock second
// (spec §4.6).
func (w *worker) sampleDelay(e queue.Entry) {
	now := time.Now()
	if now.Sub(w.lastDelaySampled) < time.Second {
		return
	}
	w.lastDelaySampled = now
	delay := now.Sub(e.Message.ReceivedAt())
	w.wm.EventDelaySample.Set(int64(delay / time.Second))
}

// suspend schedules a reconnect after an exponentially-growing delay seeded
// at Config.TimeReopen, using the same backoff curve an HTTP retry client
// would apply to a failed request (spec §4.6 names only a fixed
// now+time_reopen delay; growing it on repeated failure avoids a suspended
// destination retrying a dead endpoint every time_reopen indefinitely).
func (w *worker) suspend() {
	w.suspendAttempts++
	delay := retryablehttp.DefaultBackoff(w.cfg.TimeReopen, w.cfg.TimeReopen*10, w.suspendAttempts, nil)
	w.scheduleReconnect(delay)
}

func (w *worker) disconnect() {
	if !w.connected {
		return
	}
	w.inserter.Disconnect()
	w.connected = false
	w.wm.Unreachable.Set(1)
}

// onShutdown runs spec §4.6's shutdown sequence: stop watches, flush
// expedite, rewind the whole backlog so a persistent queue retains state.
func (w *worker) onShutdown(ctx context.Context) {
	w.stopReconnect()
	w.stopFlush()
	w.flush(ctx, FlushExpedite)
	w.q.RewindBacklogAll()
	w.disconnect()
}

func (w *worker) scheduleReconnect(d time.Duration) {
	w.stopReconnect()
	w.reconnectTimer = time.NewTimer(d)
}

func (w *worker) stopReconnect() {
	if w.reconnectTimer != nil {
		w.reconnectTimer.Stop()
		w.reconnectTimer = nil
	}
}

func (w *worker) scheduleFlush(d time.Duration) {
	w.stopFlush()
	w.flushTimer = time.NewTimer(d)
}

func (w *worker) stopFlush() {
	if w.flushTimer != nil {
		w.flushTimer.Stop()
		w.flushTimer = nil
	}
}
