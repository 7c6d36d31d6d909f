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

package stats_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/syslog-ng/logcore/stats"
)

var _ = Describe("Key", func() {
	It("canonicalizes label order so equal label sets compare equal", func() {
		k1 := stats.NewKey("d_file", stats.Label{Name: "b", Value: "2"}, stats.Label{Name: "a", Value: "1"})
		k2 := stats.NewKey("d_file", stats.Label{Name: "a", Value: "1"}, stats.Label{Name: "b", Value: "2"})
		Expect(k1.Equal(k2)).To(BeTrue())
		Expect(k1.Canonical()).To(Equal(k2.Canonical()))
	})

	It("treats differing legacy tuples as distinct keys", func() {
		k1 := stats.KeyFromLegacy("dst", "file", "i1", "d_file")
		k2 := stats.KeyFromLegacy("dst", "file", "i2", "d_file")
		Expect(k1.Equal(k2)).To(BeFalse())
	})

	It("renders QueryKey as the dotted legacy tuple when present", func() {
		k := stats.KeyFromLegacy("dst", "file", "i1", "d_file")
		Expect(k.QueryKey()).To(Equal("dst.file.i1.d_file"))
	})

	It("renders QueryKey as the bare name with no legacy tuple", func() {
		k := stats.NewKey("standalone")
		Expect(k.QueryKey()).To(Equal("standalone"))
	})
})

var _ = Describe("glob matching", func() {
	It("matches '*' across a whole segment", func() {
		results := matchKeys("dst.file.*.d_file", []string{
			"dst.file.i1.d_file",
			"dst.file.i2.d_file",
			"dst.file.i1.d_other",
		})
		Expect(results).To(ConsistOf("dst.file.i1.d_file", "dst.file.i2.d_file"))
	})

	It("matches '?' as exactly one rune", func() {
		results := matchKeys("dst.file.i?.d_file", []string{
			"dst.file.i1.d_file",
			"dst.file.i22.d_file",
		})
		Expect(results).To(ConsistOf("dst.file.i1.d_file"))
	})

	It("does not match across segment boundaries with a segment-bound '*'", func() {
		results := matchKeys("dst.*", []string{"dst.file.i1.d_file", "dst"})
		Expect(results).To(ConsistOf("dst.file.i1.d_file"))
	})
})

func matchKeys(pattern string, keys []string) []string {
	reg := stats.NewRegistry(stats.LevelNormal, 0)
	for _, k := range keys {
		parts := splitDotted(k)
		key := stats.KeyFromLegacy(parts[0], parts[1], parts[2], parts[3])
		reg.RegisterCounter(stats.LevelNormal, key, stats.KindSingleValue, stats.CounterValue)
	}
	return reg.List(pattern)
}

func splitDotted(s string) [4]string {
	var out [4]string
	start, idx := 0, 0
	for i := 0; i < len(s) && idx < 3; i++ {
		if s[i] == '.' {
			out[idx] = s[start:i]
			idx++
			start = i + 1
		}
	}
	out[idx] = s[start:]
	return out
}
