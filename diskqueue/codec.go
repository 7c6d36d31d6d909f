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

package diskqueue

import (
	"net"
	"time"

	"github.com/ugorji/go/codec"

	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/queue"
	libtag "github.com/syslog-ng/logcore/tags"
)

var msgpackHandle = newMsgpackHandle()

func newMsgpackHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	// Fields encode positionally instead of as a name->value map: field
	// names never hit disk, keeping records compact and making the layout
	// a pure function of struct field order.
	h.StructToArray = true
	return h
}

// wireValue is the on-disk shape of message.Value: the exported type's Raw
// field survives msgpack round-tripping as-is, but Type needs an explicit
// field since message.ValueType carries no (de)serialization of its own.
type wireValue struct {
	Type uint8
	Raw  []byte
}

// wireMessage is the on-disk shape of a queue.Entry. Times are stored as
// UnixNano so the wire format does not depend on time.Time's own gob/msgpack
// encoding, and the source address is flattened to its network/string pair
// since net.Addr is an interface with no generic codec support.
type wireMessage struct {
	Priority    uint16
	RecvNano    int64
	StampNano   int64
	SrcNetwork  string
	SrcAddr     string
	Values      map[string]wireValue
	Tags        []uint32
	FlowControl bool
	MatchResult bool
}

type netAddr struct {
	network string
	addr    string
}

func (a netAddr) Network() string { return a.network }
func (a netAddr) String() string  { return a.addr }

// serializeEntry encodes an Entry into its on-disk msgpack representation
// (spec §4.3 "serialize"), grounded on logmsg-serialize.h's field-by-field
// approach: every Message field the filter/destination layers can observe
// is carried across, nothing is left to be reconstructed from context.
func serializeEntry(e queue.Entry) ([]byte, error) {
	w := wireMessage{
		Priority:    uint16(e.Message.Priority()),
		RecvNano:    e.Message.ReceivedAt().UnixNano(),
		StampNano:   e.Message.Timestamp().UnixNano(),
		Values:      make(map[string]wireValue),
		FlowControl: e.PathOptions.FlowControlRequested,
		MatchResult: e.PathOptions.MatchResult,
	}
	if src := e.Message.SourceAddr(); src != nil {
		w.SrcNetwork = src.Network()
		w.SrcAddr = src.String()
	}
	e.Message.ForEachValue(func(name string, v message.Value) {
		w.Values[name] = wireValue{Type: uint8(v.Type), Raw: v.Raw}
	})
	tagSet := e.Message.Tags()
	for id := libtag.ID(0); id < libtag.ID(libtag.Count()); id++ {
		if tagSet.Has(id) {
			w.Tags = append(w.Tags, uint32(id))
		}
	}

	var buf []byte
	if err := codec.NewEncoderBytes(&buf, msgpackHandle).Encode(&w); err != nil {
		return nil, errEncodeFailed(err)
	}
	return buf, nil
}

// deserializeEntry decodes a record previously produced by serializeEntry
// (spec §4.3 "deserialize"). It never mutates shared state: the returned
// Message starts out exclusively owned and writable.
func deserializeEntry(raw []byte) (queue.Entry, error) {
	var w wireMessage
	if err := codec.NewDecoderBytes(raw, msgpackHandle).Decode(&w); err != nil {
		return queue.Entry{}, errDecodeFailed(err)
	}

	var src net.Addr
	if w.SrcAddr != "" {
		src = netAddr{network: w.SrcNetwork, addr: w.SrcAddr}
	}

	m := message.New(message.Priority(w.Priority), time.Unix(0, w.RecvNano), time.Unix(0, w.StampNano), src)
	for name, v := range w.Values {
		m.SetValue(name, message.Value{Type: message.ValueType(v.Type), Raw: v.Raw})
	}
	for _, id := range w.Tags {
		m.AddTag(libtag.ID(id))
	}

	return queue.Entry{
		Message: m,
		PathOptions: message.PathOptions{
			FlowControlRequested: w.FlowControl,
			MatchResult:          w.MatchResult,
		},
	}, nil
}
