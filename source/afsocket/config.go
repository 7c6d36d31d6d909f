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
	"github.com/syslog-ng/logcore/window"
)

// Network names the socket family a Driver listens on (spec §4.5
// "AF_SOCKET source driver").
type Network uint8

const (
	NetworkTCP Network = iota
	NetworkUDP
	NetworkUnix
	NetworkUnixgram
)

func (n Network) isStream() bool { return n == NetworkTCP || n == NetworkUnix }

func (n Network) goNetwork() string {
	switch n {
	case NetworkTCP:
		return "tcp"
	case NetworkUDP:
		return "udp"
	case NetworkUnix:
		return "unix"
	case NetworkUnixgram:
		return "unixgram"
	default:
		return ""
	}
}

// maxAcceptPerWakeup caps how many connections a single accept-loop pass
// takes before yielding, mirroring the original accept loop's batch limit
// (spec §4.5).
const maxAcceptPerWakeup = 30

// defaultListenBacklog is used when Config.ListenBacklog is left at zero.
const defaultListenBacklog = 255

// Config carries one AF_SOCKET source driver's init-time parameters.
type Config struct {
	Net            Network
	Address        string
	ListenBacklog  int
	MaxConnections int
	KeepAlive      bool // keep listen fd and connections across a reload

	// ReadBufferSize bounds a single line read from a stream connection
	// before it is treated as a protocol violation and the connection is
	// dropped.
	ReadBufferSize int

	// Window, if non-nil, is the dynamic-window pool every stream
	// connection attaches to (spec §4.4).
	Window *window.Pool

	// StaticWindow is the per-connection static credit handed to Window on
	// Attach; ignored if Window is nil.
	StaticWindow int

	// DefaultFacility/DefaultSeverity seed Priority for datagram/stream
	// payloads that carry no parseable PRI header of their own.
	DefaultFacility message.Facility
	DefaultSeverity message.Severity

	// MemInfoProbeInterval is how often the SO_MEMINFO probe runs for
	// datagram sockets that support it; zero disables it.
	MemInfoProbeInterval time.Duration
}

func (c *Config) setDefaults() {
	if c.ListenBacklog <= 0 {
		c.ListenBacklog = defaultListenBacklog
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = 64 * 1024
	}
	if c.MemInfoProbeInterval <= 0 {
		c.MemInfoProbeInterval = time.Second
	}
}

func (c *Config) validate() error {
	if c.Address == "" {
		return ErrInvalidAddress
	}
	switch c.Net {
	case NetworkTCP, NetworkUDP, NetworkUnix, NetworkUnixgram:
	default:
		return ErrInvalidNetwork
	}
	return nil
}
