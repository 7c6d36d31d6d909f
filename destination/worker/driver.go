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
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/queue"
	"github.com/syslog-ng/logcore/semaphore/sem"
)

// Driver is one threaded destination: a fixed pool of workers, each with its
// own queue, fed by PushTail and routed by partition key hash or
// round-robin (spec §4.6 "Model").
type Driver struct {
	mu      sync.Mutex
	cfg     Config
	workers []*worker
	seq     *sequencer
	dm      *DriverMetrics
	log     logger.Logger
	started bool

	seqStore SeqNumStore
	seqKey   string

	rrCounter uint64
}

// New builds a Driver with one worker per queues[i]/newInserter(i) pair.
// len(queues) must equal cfg.NumWorkers after defaulting.
func New(ctx context.Context, cfg Config, queues []queue.Queue, newInserter func(id int) Inserter) (*Driver, error) {
	cfg.setDefaults()
	if newInserter == nil {
		return nil, ErrNilInserter
	}
	if len(queues) != cfg.NumWorkers {
		return nil, ErrInvalidNumWorkers
	}

	var admission sem.Sem
	if cfg.MaxInFlightBatches > 0 {
		admission = sem.New(ctx, int64(cfg.MaxInFlightBatches))
	}

	d := &Driver{
		cfg: cfg,
		dm:  newDriverMetrics(),
		log: logger.New(ctx),
		seq: newSequencer(cfg.NumWorkers, 0),
	}

	for i := 0; i < cfg.NumWorkers; i++ {
		ins := newInserter(i)
		if ins == nil {
			return nil, ErrNilInserter
		}
		w := newWorker(i, queues[i], ins, &d.cfg, d.seq, newWorkerMetrics(), d.dm, admission, d.log)
		d.workers = append(d.workers, w)
	}

	return d, nil
}

// BindSeqNumStore wires the persistent-state collaborator that carries the
// shared sequence counter across a restart (spec §6 "<driver>.seqnum").
// Must be called before Start.
func (d *Driver) BindSeqNumStore(store SeqNumStore, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seqStore = store
	d.seqKey = key
}

// Metrics returns the driver-level aggregated counters for external wiring
// into a stats registry.
func (d *Driver) Metrics() *DriverMetrics { return d.dm }

// WorkerCount reports the configured worker pool size.
func (d *Driver) WorkerCount() int { return len(d.workers) }

// Start launches every worker's event loop goroutine.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return ErrAlreadyStarted
	}
	if d.seqStore != nil {
		if v, ok := d.seqStore.LoadSeqNum(d.seqKey); ok {
			d.seq.reset(v)
		}
	}
	d.started = true
	d.mu.Unlock()

	for _, w := range d.workers {
		go w.run(ctx)
	}
	return nil
}

// Stop posts shutdown to every worker and waits for their loops to exit
// (spec §4.6 "Shutdown"), then persists the shared sequence counter.
func (d *Driver) Stop(context.Context) error {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return ErrNotStarted
	}
	d.started = false
	d.mu.Unlock()

	for _, w := range d.workers {
		w.requestShutdown()
	}
	for _, w := range d.workers {
		<-w.done
	}

	if d.seqStore != nil {
		_ = d.seqStore.StoreSeqNum(d.seqKey, d.seq.current())
	}
	return nil
}

// PushTail routes e to one worker's queue by partition key hash (when
// Config.PartitionKey is set and yields a non-empty key) or round-robin
// otherwise, and wakes that worker.
func (d *Driver) PushTail(e queue.Entry) error {
	idx := d.route(e.Message)
	w := d.workers[idx]
	if err := w.q.PushTail(e); err != nil {
		return err
	}
	w.wakeup()
	return nil
}

func (d *Driver) route(m message.Message) int {
	n := len(d.workers)
	if d.cfg.PartitionKey != nil {
		if key, ok := d.cfg.PartitionKey(m); ok && key != "" {
			h := fnv.New32a()
			_, _ = h.Write([]byte(key))
			return int(h.Sum32() % uint32(n))
		}
	}
	next := atomic.AddUint64(&d.rrCounter, 1)
	return int(next % uint64(n))
}
