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

package filter_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/syslog-ng/logcore/filter"
	"github.com/syslog-ng/logcore/message"
)

var _ = Describe("RegexMatch", func() {
	It("matches a named value", func() {
		m := newMsg()
		m.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: []byte("connection refused")})

		r, err := filter.NewRegexMatch("refused$", filter.MatcherString, filter.RegexFlags{}, filter.ValueOf("MESSAGE"), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Eval([]message.Message{m})).To(BeTrue())
	})

	It("fails construction on an invalid pattern", func() {
		_, err := filter.NewRegexMatch("(unclosed", filter.MatcherPCRE, filter.RegexFlags{}, nil, false)
		Expect(err).To(HaveOccurred())
	})

	It("applies ICase", func() {
		m := newMsg()
		m.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: []byte("ERROR: disk full")})

		r, err := filter.NewRegexMatch("error", filter.MatcherString, filter.RegexFlags{ICase: true}, filter.ValueOf("MESSAGE"), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Eval([]message.Message{m})).To(BeTrue())
	})

	It("falls back to the synthetic program/pid/message subject when no value or template is given", func() {
		m := newMsg()
		m.SetValue("PROGRAM", message.Value{Type: message.TypeString, Raw: []byte("sshd")})
		m.SetValue("PID", message.Value{Type: message.TypeString, Raw: []byte("123")})
		m.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: []byte("session opened")})

		r, err := filter.NewRegexMatch(`^sshd\[123\]: session opened$`, filter.MatcherString, filter.RegexFlags{}, nil, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Eval([]message.Message{m})).To(BeTrue())
	})

	It("attaches numbered and named captures when store-matches is set", func() {
		m := newMsg()
		m.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: []byte("user=alice uid=501")})

		r, err := filter.NewRegexMatch(`user=(?P<user>\w+) uid=(\d+)`, filter.MatcherString,
			filter.RegexFlags{StoreMatches: true}, filter.ValueOf("MESSAGE"), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Eval([]message.Message{m})).To(BeTrue())

		v, ok := m.GetValue("0")
		Expect(ok).To(BeTrue())
		Expect(string(v.Raw)).To(Equal("user=alice uid=501"))

		v, ok = m.GetValue("1")
		Expect(ok).To(BeTrue())
		Expect(string(v.Raw)).To(Equal("alice"))

		v, ok = m.GetValue("user")
		Expect(ok).To(BeTrue())
		Expect(string(v.Raw)).To(Equal("alice"))

		v, ok = m.GetValue("2")
		Expect(ok).To(BeTrue())
		Expect(string(v.Raw)).To(Equal("501"))
	})

	It("reports modifies_message only when store-matches is requested", func() {
		withStore, err := filter.NewRegexMatch("a", filter.MatcherString, filter.RegexFlags{StoreMatches: true}, filter.Static("a"), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(withStore.ModifiesMessage()).To(BeTrue())

		withoutStore, err := filter.NewRegexMatch("a", filter.MatcherString, filter.RegexFlags{}, filter.Static("a"), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(withoutStore.ModifiesMessage()).To(BeFalse())
	})

	It("applies the negate flag", func() {
		r, err := filter.NewRegexMatch("nomatch", filter.MatcherString, filter.RegexFlags{}, filter.Static("hello"), true)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Eval([]message.Message{newMsg()})).To(BeTrue())
	})
})
