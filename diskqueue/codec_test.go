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

package diskqueue_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/syslog-ng/logcore/diskqueue"
	"github.com/syslog-ng/logcore/message"
	libtag "github.com/syslog-ng/logcore/tags"
)

var _ = Describe("Entry round-trip", func() {
	It("preserves priority, timestamps, values and path options", func() {
		now := time.Now()
		m := message.New(message.NewPriority(4, 2), now, now.Add(time.Second), &net.TCPAddr{IP: net.ParseIP("192.0.2.1"), Port: 514})
		m.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: []byte("hello")})
		m.SetValue("PROGRAM", message.Value{Type: message.TypeString, Raw: []byte("sshd")})

		out, in, err := diskqueue.RoundTripForTest(m, message.PathOptions{FlowControlRequested: true, MatchResult: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(in.Message.Priority()).To(Equal(out.Priority()))
		v, ok := in.Message.GetValue("MESSAGE")
		Expect(ok).To(BeTrue())
		Expect(string(v.Raw)).To(Equal("hello"))
		Expect(in.PathOptions.FlowControlRequested).To(BeTrue())
		Expect(in.PathOptions.MatchResult).To(BeTrue())
		Expect(in.Message.SourceAddr().String()).To(Equal(out.SourceAddr().String()))
	})

	It("preserves tags", func() {
		id := libtag.Register("diskqueue-codec-test-tag")
		m := message.New(message.NewPriority(1, 3), time.Now(), time.Now(), nil)
		m.AddTag(id)

		_, in, err := diskqueue.RoundTripForTest(m, message.PathOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(in.Message.HasTag(id)).To(BeTrue())
	})

	It("fails to decode garbage", func() {
		err := diskqueue.DecodeGarbageForTest()
		Expect(err).To(HaveOccurred())
	})
})
