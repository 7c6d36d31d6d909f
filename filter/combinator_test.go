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

func constNode(result bool) filter.Node {
	return filter.NewComparison(filter.Static("x"), filter.Static(map[bool]string{true: "x", false: "y"}[result]),
		filter.CmpEQ|filter.CmpStringBased, filter.CompatCurrent, false)
}

var _ = Describe("And", func() {
	It("is true only when both operands are true", func() {
		Expect(filter.NewAnd(constNode(true), constNode(true), false).Eval([]message.Message{newMsg()})).To(BeTrue())
		Expect(filter.NewAnd(constNode(true), constNode(false), false).Eval([]message.Message{newMsg()})).To(BeFalse())
		Expect(filter.NewAnd(constNode(false), constNode(true), false).Eval([]message.Message{newMsg()})).To(BeFalse())
	})

	It("reports modifies_message when either operand does", func() {
		withCaptures, err := filter.NewRegexMatch("x", filter.MatcherString, filter.RegexFlags{StoreMatches: true}, filter.Static("x"), false)
		Expect(err).NotTo(HaveOccurred())

		a := filter.NewAnd(constNode(true), withCaptures, false)
		Expect(a.ModifiesMessage()).To(BeTrue())
	})
})

var _ = Describe("Or", func() {
	It("is true when either operand is true", func() {
		Expect(filter.NewOr(constNode(false), constNode(true), false).Eval([]message.Message{newMsg()})).To(BeTrue())
		Expect(filter.NewOr(constNode(false), constNode(false), false).Eval([]message.Message{newMsg()})).To(BeFalse())
	})

	It("applies negate on the combined result", func() {
		o := filter.NewOr(constNode(true), constNode(false), true)
		Expect(o.Eval([]message.Message{newMsg()})).To(BeFalse())
	})
})
