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

package filter

import (
	"net"

	"github.com/syslog-ng/logcore/message"
)

// Netmask matches a message's source address against a CIDR, for both IPv4
// and IPv6 (spec §4.2 "Netmask v4/v6"); Go's net.IPNet handles both
// families uniformly, so unlike the original's split filter-netmask /
// filter-netmask6 types, one node type covers both.
type Netmask struct {
	Base
	network *net.IPNet
	isValid bool
}

// NewNetmask parses cidr at construction time. An invalid CIDR does not
// fail construction; instead the node is marked invalid and always
// evaluates to a constant negation (spec §4.2 "rejects invalid input by
// marking the node is_valid = false").
func NewNetmask(cidr string, negate bool) *Netmask {
	_, network, err := net.ParseCIDR(cidr)
	n := &Netmask{Base: NewBase(negate, false)}
	if err != nil {
		n.isValid = false
		return n
	}
	n.network = network
	n.isValid = true
	return n
}

func (n *Netmask) Eval(messages []message.Message) bool {
	return evalNode(&n.Base, n, messages)
}

func (n *Netmask) Children() []Node { return nil }

// IsValid reports whether the CIDR parsed successfully.
func (n *Netmask) IsValid() bool { return n.isValid }

func (n *Netmask) evaluate(messages []message.Message) bool {
	if !n.isValid {
		return false
	}
	if len(messages) == 0 {
		return false
	}
	addr := sourceIP(messages[len(messages)-1])
	return n.network.Contains(addr)
}

// sourceIP obtains the source address from the message, falling back to
// loopback when the source is a UNIX socket or otherwise unspecified
// (spec §4.2 "or loopback if the source is a UNIX socket/unspecified").
func sourceIP(m message.Message) net.IP {
	addr := m.SourceAddr()
	if addr == nil {
		return net.IPv4(127, 0, 0, 1)
	}
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		// *net.UnixAddr and any other non-IP address family.
		return net.IPv4(127, 0, 0, 1)
	}
}
