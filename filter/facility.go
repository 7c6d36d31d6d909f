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
	"github.com/syslog-ng/logcore/message"
	libtag "github.com/syslog-ng/logcore/tags"
)

// facilityExactBit is the sentinel high bit marking an exact-facility-number
// match rather than a bitmap (spec §4.2 "Facility/Severity ... for
// facility, an exact number marked by a sentinel high-bit").
const facilityExactBit = uint32(1) << 31

// Facility matches a message's facility against either a bitmap (bit k set
// iff facility k matches) or, via FacilityExact, one exact facility number.
type Facility struct {
	Base
	bits uint32
}

// NewFacilityBitmap builds a Facility node matching any facility whose bit
// is set in bits.
func NewFacilityBitmap(bits uint32, negate bool) *Facility {
	return &Facility{Base: NewBase(negate, false), bits: bits &^ facilityExactBit}
}

// NewFacilityExact builds a Facility node matching exactly one facility
// number.
func NewFacilityExact(fac message.Facility, negate bool) *Facility {
	return &Facility{Base: NewBase(negate, false), bits: facilityExactBit | uint32(fac)}
}

func (f *Facility) Eval(messages []message.Message) bool {
	return evalNode(&f.Base, f, messages)
}

func (f *Facility) Children() []Node { return nil }

func (f *Facility) evaluate(messages []message.Message) bool {
	if len(messages) == 0 {
		return false
	}
	fac := messages[len(messages)-1].Priority().Facility()
	if f.bits&facilityExactBit != 0 {
		return uint32(fac) == f.bits&^facilityExactBit
	}
	return f.bits&(1<<uint32(fac)) != 0
}

// Severity matches a message's severity against a bitmap (bit k set iff
// severity k matches), which also expresses a contiguous range (e.g.
// "error or worse") by setting every bit in that range.
type Severity struct {
	Base
	bits uint8
}

// NewSeverityBitmap builds a Severity node matching any severity whose bit
// is set in bits.
func NewSeverityBitmap(bits uint8, negate bool) *Severity {
	return &Severity{Base: NewBase(negate, false), bits: bits}
}

// NewSeverityRange builds a Severity node matching every severity in
// [min, max] inclusive, the bitmap encoding of a range comparison like
// "level(err..emerg)".
func NewSeverityRange(min, max message.Severity, negate bool) *Severity {
	var bits uint8
	for s := min; s <= max && s <= 7; s++ {
		bits |= 1 << uint8(s)
	}
	return &Severity{Base: NewBase(negate, false), bits: bits}
}

func (s *Severity) Eval(messages []message.Message) bool {
	return evalNode(&s.Base, s, messages)
}

func (s *Severity) Children() []Node { return nil }

func (s *Severity) evaluate(messages []message.Message) bool {
	if len(messages) == 0 {
		return false
	}
	sev := messages[len(messages)-1].Priority().Severity()
	return s.bits&(1<<uint8(sev)) != 0
}

// TagMembership matches a message's tag set against a single registered
// tag (spec §3 "tag-membership" filter node variant).
type TagMembership struct {
	Base
	tag libtag.ID
}

// NewTagMembership builds a node matching messages carrying tag id.
func NewTagMembership(id libtag.ID, negate bool) *TagMembership {
	return &TagMembership{Base: NewBase(negate, false), tag: id}
}

func (t *TagMembership) Eval(messages []message.Message) bool {
	return evalNode(&t.Base, t, messages)
}

func (t *TagMembership) Children() []Node { return nil }

func (t *TagMembership) evaluate(messages []message.Message) bool {
	if len(messages) == 0 {
		return false
	}
	return messages[len(messages)-1].HasTag(t.tag)
}
