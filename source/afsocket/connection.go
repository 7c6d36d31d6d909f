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

package afsocket

import (
	"bufio"
	"net"
	"sync"
	"time"

	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/queue"
	"github.com/syslog-ng/logcore/window"
)

// connection is one accepted stream connection: a line-delimited reader
// feeding Messages into the driver's sink, with an optional dynamic-window
// reader attached (spec §4.5 "build a per-connection reader, attach it to
// the window pool").
type connection struct {
	driver *Driver
	conn   net.Conn
	reader *bufio.Reader
	win    *window.Reader

	closeOnce sync.Once
}

func newConnection(d *Driver, nc net.Conn) *connection {
	c := &connection{
		driver: d,
		conn:   nc,
		reader: bufio.NewReaderSize(nc, d.cfg.ReadBufferSize),
	}
	if d.cfg.Window != nil {
		id := ""
		if nc != nil && nc.RemoteAddr() != nil {
			id = nc.RemoteAddr().String()
		}
		c.win = d.cfg.Window.AttachNamed(id, d.cfg.StaticWindow)
	}
	return c
}

// readLoop reads newline-delimited records until EOF or error, pushing each
// as a Message into the driver's sink. It draws one window credit per
// message when a pool is attached and releases it once the message has been
// handed off (the credit models "a record is in flight", not delivery
// confirmation, since that belongs to the destination side's ack/rewind
// discipline).
func (c *connection) readLoop() {
	defer c.driver.wg.Done()
	defer c.driver.dropConnection(c)
	defer c.close()

	for {
		if c.win != nil {
			for c.win.Acquire(1) == 0 {
				time.Sleep(time.Millisecond)
			}
		}

		line, err := c.reader.ReadBytes('\n')
		if len(line) > 0 {
			c.emit(line)
		}
		if c.win != nil {
			c.win.Release(1)
		}
		if err != nil {
			return
		}
	}
}

func (c *connection) emit(line []byte) {
	raw := trimNewline(line)
	now := time.Now()
	m := message.New(message.NewPriority(c.driver.cfg.DefaultFacility, c.driver.cfg.DefaultSeverity), now, now, c.conn.RemoteAddr())
	m.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: raw})
	if err := c.driver.sink.PushTail(queue.Entry{Message: m}); err != nil {
		c.driver.log.Warning("afsocket: sink rejected message", err)
	}
}

func trimNewline(b []byte) []byte {
	n := len(b)
	if n > 0 && b[n-1] == '\n' {
		n--
	}
	if n > 0 && b[n-1] == '\r' {
		n--
	}
	return b[:n]
}

// close shuts down the underlying net.Conn and returns any drawn window
// credit. It is a no-op on the datagram pseudo-connection marker, which has
// no net.Conn of its own (the real socket there is the Driver's
// net.PacketConn, closed separately by Stop).
func (c *connection) close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		if c.win != nil {
			c.win.Detach()
		}
	})
}
