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

// InsertResult is the outcome an Inserter reports for one insert or flush
// call (spec §4.6 "insert(message)").
type InsertResult uint8

const (
	// ResultSuccess: the record was delivered.
	ResultSuccess InsertResult = iota
	// ResultDrop: the record cannot and will not be delivered; drop it.
	ResultDrop
	// ResultError: a recoverable failure against this specific record/batch.
	ResultError
	// ResultNotConnected: the connection was lost mid-call.
	ResultNotConnected
	// ResultQueued: the record was buffered by the Inserter itself; keep
	// batching without flushing yet.
	ResultQueued
	// ResultExplicitAckMgmt: the Inserter calls ack/rewind on the queue
	// itself; the driver takes no further action on this call.
	ResultExplicitAckMgmt
	// ResultRetry: a transient failure; retry the same batch up to
	// Config.RetriesMax times before escalating to NotConnected behavior.
	ResultRetry
)

func (r InsertResult) String() string {
	switch r {
	case ResultSuccess:
		return "SUCCESS"
	case ResultDrop:
		return "DROP"
	case ResultError:
		return "ERROR"
	case ResultNotConnected:
		return "NOT_CONNECTED"
	case ResultQueued:
		return "QUEUED"
	case ResultExplicitAckMgmt:
		return "EXPLICIT_ACK_MGMT"
	case ResultRetry:
		return "RETRY"
	default:
		return "UNKNOWN"
	}
}

// FlushMode selects how a worker's pending batch is flushed (spec §4.6
// "Flush").
type FlushMode uint8

const (
	// FlushNormal is used during steady-state batch completion.
	FlushNormal FlushMode = iota
	// FlushExpedite is used during shutdown, when a parent has signalled the
	// persistent queue will preserve whatever does not get flushed in time.
	FlushExpedite
)

func (m FlushMode) String() string {
	if m == FlushExpedite {
		return "expedite"
	}
	return "normal"
}
