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

package stats

import "strings"

// QueryResult is one matched counter, as returned by Get.
type QueryResult struct {
	Key       string
	Counter   string
	Value     int64
}

// splitQuery separates the optional ".<counter-name>" suffix from a query
// expression `<pattern>[.<counter-name>]` (spec §4.1 "Query layer").
func splitQuery(expr string) (pattern string, counterName string, hasCounter bool) {
	idx := strings.LastIndex(expr, ".")
	if idx < 0 {
		return expr, "", false
	}
	suffix := expr[idx+1:]
	if name, ok := counterNameByAlias[suffix]; ok {
		return expr[:idx], name, true
	}
	return expr, "", false
}

var counterNameByAlias = map[string]string{
	"dropped":       "dropped",
	"processed":     "processed",
	"queued":        "queued",
	"suppressed":    "suppressed",
	"stamp":         "stamp",
	"memory_usage":  "memory_usage",
	"discarded":     "discarded",
	"matched":       "matched",
	"not_matched":   "not_matched",
	"written":       "written",
	"value":         "value",
}

var counterIDByName = map[string]CounterID{
	"value":        CounterValue,
	"dropped":      CounterDropped,
	"processed":    CounterProcessed,
	"queued":       CounterQueued,
	"suppressed":   CounterSuppressed,
	"stamp":        CounterStamp,
	"memory_usage": CounterMemoryUsage,
	"discarded":    CounterDiscarded,
	"matched":      CounterMatched,
	"not_matched":  CounterNotMatched,
	"written":      CounterWritten,
}

var counterNameByID = func() map[CounterID]string {
	m := make(map[CounterID]string, len(counterIDByName))
	for name, id := range counterIDByName {
		m[id] = name
	}
	return m
}()

// Get implements spec §4.1 QUERY GET: list every matching counter with its
// current value.
func (r *Registry) Get(expr string) []QueryResult {
	pattern, counterName, hasCounter := splitQuery(expr)
	var out []QueryResult

	r.ForeachCluster(func(c *Cluster) bool {
		if !globMatch(pattern, c.Key().QueryKey()) {
			return true
		}
		for _, id := range c.CounterIDs() {
			name := counterNameByID[id]
			if hasCounter && name != counterName {
				continue
			}
			out = append(out, QueryResult{
				Key:     c.Key().QueryKey(),
				Counter: name,
				Value:   c.Counter(id).Get(),
			})
		}
		return true
	}, nil)
	return out
}

// GetSum implements spec §4.1 QUERY GET_SUM: sums every matching counter,
// excluding the `stamp` type (it is a timestamp, not a quantity).
func (r *Registry) GetSum(expr string) int64 {
	var sum int64
	for _, res := range r.Get(expr) {
		if res.Counter == "stamp" {
			continue
		}
		sum += res.Value
	}
	return sum
}

// List implements spec §4.1 QUERY LIST: names of matching clusters only.
func (r *Registry) List(pattern string) []string {
	seen := make(map[string]bool)
	var out []string
	r.ForeachCluster(func(c *Cluster) bool {
		k := c.Key().QueryKey()
		if globMatch(pattern, k) && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
		return true
	}, nil)
	return out
}
