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
	"time"

	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/queue"
)

// datagramLoop implements the single pseudo-connection a datagram socket
// opens against its bind address (spec §4.5 "A single pseudo-connection is
// opened ... no accept loop").
func (d *Driver) datagramLoop() {
	pseudo := &connection{driver: d}
	d.mu.Lock()
	d.conns[pseudo] = struct{}{}
	d.mu.Unlock()

	defer d.wg.Done()
	defer func() {
		d.mu.Lock()
		delete(d.conns, pseudo)
		d.mu.Unlock()
	}()

	d.numConnections.Inc()
	defer d.numConnections.Add(-1)

	buf := make([]byte, d.cfg.ReadBufferSize)
	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		n, addr, err := d.packetConn.ReadFrom(buf)
		if err != nil {
			select {
			case <-d.stopCh:
				return
			default:
			}
			d.log.Error("afsocket: datagram read failed", err)
			return
		}
		if n == 0 {
			continue
		}

		now := time.Now()
		m := message.New(message.NewPriority(d.cfg.DefaultFacility, d.cfg.DefaultSeverity), now, now, addr)
		payload := make([]byte, n)
		copy(payload, buf[:n])
		m.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: payload})

		if err := d.sink.PushTail(queue.Entry{Message: m}); err != nil {
			d.log.Warning("afsocket: sink rejected datagram", err)
		}
	}
}

// memInfoLoop polls SO_MEMINFO on the datagram socket at
// Config.MemInfoProbeInterval, setting the drop/buffer gauges. A single
// probe failure disables all subsequent probing permanently (spec §4.5
// "Observability").
func (d *Driver) memInfoLoop() {
	defer d.wg.Done()

	tick := time.NewTicker(d.cfg.MemInfoProbeInterval)
	defer tick.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-tick.C:
			d.mu.Lock()
			disabled := d.memInfoDisabled
			pc := d.packetConn
			d.mu.Unlock()
			if disabled || pc == nil {
				continue
			}

			dropped, bufMax, bufUsed, ok := probeSocketMemInfo(pc)
			if !ok {
				d.mu.Lock()
				d.memInfoDisabled = true
				d.mu.Unlock()
				continue
			}
			d.socketDropped.Set(int64(dropped))
			d.socketBufMax.Set(int64(bufMax))
			d.socketBufUsed.Set(int64(bufUsed))
		}
	}
}
