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

// Package nats is an illustrative destination worker.Inserter publishing to
// a NATS JetStream subject. JetStream's PubAck is a real per-message
// confirmation distinct from Insert returning without error, so this
// Inserter acks or rewinds the backlog itself on the confirmed outcome
// instead of letting the driver's generic SUCCESS/ERROR table decide,
// reporting worker.ResultExplicitAckMgmt on the path it manages (spec §4.6
// "EXPLICIT_ACK_MGMT: the insert implementation will call ack/rewind
// itself").
package nats

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/syslog-ng/logcore/destination/worker"
	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/queue"
)

// Config carries one worker's NATS JetStream connection and publish
// parameters.
type Config struct {
	// URL is the NATS server URL, e.g. "nats://localhost:4222".
	URL string

	// Subject is the JetStream subject each message is published to.
	Subject string

	// StreamName is the JetStream stream Subject belongs to; it must already
	// exist or be creatable with AddStream semantics this package does not
	// attempt, matching the teacher's components favoring externally-managed
	// broker topology over auto-provisioning it from a client library.
	StreamName string

	// AckWait bounds how long Insert waits for a JetStream PubAck before
	// treating the publish as failed.
	AckWait time.Duration

	// Options are extra nats.Option values appended after the ones this
	// package sets itself (URL, timeouts, handlers).
	Options []nats.Option
}

func (c *Config) setDefaults() {
	if c.AckWait <= 0 {
		c.AckWait = 5 * time.Second
	}
}

// Inserter is a worker.Inserter publishing one worker's queue entries to a
// JetStream subject, acking or rewinding its own queue on the JetStream
// PubAck outcome.
type Inserter struct {
	cfg Config
	q   queue.Queue
	log logger.Logger

	nc *nats.Conn
	js nats.JetStreamContext
}

// New builds an Inserter bound to q, the same queue.Queue the owning
// worker.Driver drives this worker with (passed in by the composition root
// building the Driver's newInserter callback, since the Inserter interface
// itself carries no queue reference — see destination/worker's Inserter
// doc).
func New(cfg Config, q queue.Queue, log logger.Logger) *Inserter {
	cfg.setDefaults()
	return &Inserter{cfg: cfg, q: q, log: log}
}

// Connect dials the NATS server and binds a JetStream context.
func (i *Inserter) Connect(ctx context.Context) error {
	opts := append([]nats.Option{
		nats.Timeout(10 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				i.log.Warning("nats: disconnected", err)
			}
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			i.log.Warning("nats: async error", err)
		}),
	}, i.cfg.Options...)

	nc, err := nats.Connect(i.cfg.URL, opts...)
	if err != nil {
		return err
	}

	js, err := nc.JetStream(nats.Context(ctx))
	if err != nil {
		nc.Close()
		return err
	}

	i.nc, i.js = nc, js
	return nil
}

// Disconnect closes the NATS connection. It is idempotent.
func (i *Inserter) Disconnect() {
	if i.nc == nil {
		return
	}
	i.nc.Close()
	i.nc, i.js = nil, nil
}

// Insert publishes batch (always length 1, the worker's per-message insert
// granularity) and waits for the JetStream PubAck. A confirmed ack self-acks
// the backlog and reports ResultExplicitAckMgmt; anything else leaves the
// backlog untouched and reports ResultNotConnected so the driver's own
// disconnect/suspend/reconnect handling takes over, rather than this
// Inserter trying to reimplement it.
func (i *Inserter) Insert(ctx context.Context, batch []queue.Entry) worker.InsertResult {
	if i.js == nil {
		return worker.ResultNotConnected
	}

	for _, entry := range batch {
		data := payloadOf(entry.Message)

		pctx, cancel := context.WithTimeout(ctx, i.cfg.AckWait)
		ack, err := i.js.Publish(i.cfg.Subject, data, nats.Context(pctx))
		cancel()

		if err != nil {
			i.log.Warning("nats: publish failed", err)
			return worker.ResultNotConnected
		}
		if ack.Stream != i.cfg.StreamName && i.cfg.StreamName != "" {
			i.log.Warning("nats: ack from unexpected stream", nil, ack.Stream)
		}

		i.q.AckBacklog(1)
	}

	return worker.ResultExplicitAckMgmt
}

// Flush is a no-op: every Insert call above already publishes and acks
// synchronously, so there is never a buffered batch waiting for a flush.
func (i *Inserter) Flush(context.Context, worker.FlushMode) worker.InsertResult {
	return worker.ResultExplicitAckMgmt
}

func payloadOf(m message.Message) []byte {
	if v, ok := m.GetValue("MESSAGE"); ok {
		return v.Raw
	}
	return nil
}
