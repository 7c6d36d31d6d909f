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

package control

import (
	"time"

	"github.com/syslog-ng/logcore/stats"
	"github.com/syslog-ng/logcore/stats/export"
)

// StatsCSV renders every counter in the registry using the
// "SourceName;SourceId;SourceInstance;State;Type;Number" columns of spec §6,
// for the STATS command. It delegates to stats/export so the control socket
// and the HTTP scrape endpoint render the exact same CSV.
func StatsCSV(r *stats.Registry) string {
	return string(export.CSV(export.Snapshot(r, time.Now())))
}

// QueryHandler adapts stats.Query into the function signature Hooks.Query
// expects.
func QueryHandler(r *stats.Registry) func(sub, pattern string) (string, error) {
	return func(sub, pattern string) (string, error) {
		return stats.Query(r, sub, pattern)
	}
}

// ResetStatsHandler adapts Registry.ResetNonExternal into Hooks.ResetStats.
func ResetStatsHandler(r *stats.Registry) func() {
	return r.ResetNonExternal
}

// StatsHandler adapts StatsCSV into Hooks.Stats.
func StatsHandler(r *stats.Registry) func() string {
	return func() string { return StatsCSV(r) }
}
