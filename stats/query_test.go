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

var _ = Describe("Query", func() {
	var reg *stats.Registry

	BeforeEach(func() {
		reg = stats.NewRegistry(stats.LevelNormal, 0)
		_, w, _ := reg.RegisterCounter(stats.LevelNormal, stats.KeyFromLegacy("dst", "file", "instance1", "d_file"), stats.KindLogPipe, stats.CounterWritten)
		w.Set(10)
		_, dr, _ := reg.RegisterCounter(stats.LevelNormal, stats.KeyFromLegacy("dst", "file", "instance1", "d_file"), stats.KindLogPipe, stats.CounterDropped)
		dr.Set(2)
		_, s, _ := reg.RegisterCounter(stats.LevelNormal, stats.KeyFromLegacy("dst", "file", "instance2", "d_file2"), stats.KindLogPipe, stats.CounterWritten)
		s.Set(99)
	})

	It("GET matches by glob over the component.id.instance.name key", func() {
		results := reg.Get("dst.file.instance1.*")
		Expect(results).To(HaveLen(2))
	})

	It("GET with a trailing counter name filters to that slot", func() {
		results := reg.Get("dst.file.*.*.written")
		Expect(results).To(HaveLen(2))
		for _, r := range results {
			Expect(r.Counter).To(Equal("written"))
		}
	})

	It("GET_SUM sums across matches excluding stamp", func() {
		Expect(reg.GetSum("dst.file.instance1.*")).To(Equal(int64(12)))
	})

	It("LIST returns distinct matching names only", func() {
		names := reg.List("dst.*")
		Expect(names).To(ConsistOf("dst.file.instance1.d_file", "dst.file.instance2.d_file2"))
	})
})
