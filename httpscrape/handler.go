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

package httpscrape

import (
	"net/http"
	"time"

	"github.com/syslog-ng/logcore/stats"
	"github.com/syslog-ng/logcore/stats/export"
)

// scrapeHandler answers one scrape request against reg per spec §6: 400 on a
// header-pattern mismatch, 429 on rate limit or single-instance contention,
// 200 with a rendered stats snapshot or a QUERY reply otherwise.
func (s *Server) scrapeHandler(w http.ResponseWriter, r *http.Request) {
	if !matchRequest(s.cfg.Pattern, r) {
		http.Error(w, "pattern mismatch", http.StatusBadRequest)
		return
	}

	if s.cfg.SingleInstance {
		if !s.inFlight.CompareAndSwap(false, true) {
			http.Error(w, "scrape already in progress", http.StatusTooManyRequests)
			return
		}
		defer s.inFlight.Store(false)
	}

	if !s.limiter.Allow() {
		http.Error(w, "scrape frequency limit exceeded", http.StatusTooManyRequests)
		return
	}

	if q := r.URL.Query().Get("QUERY"); q != "" {
		sub := r.URL.Query().Get("sub")
		reply, err := stats.Query(s.reg, sub, q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(reply))
		return
	}

	rows := export.Snapshot(s.reg, time.Now())
	var body []byte
	switch s.cfg.format() {
	case FormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		body = export.CSV(rows)
	case FormatKV:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		body = export.KV(rows)
	default:
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		body = export.Prometheus(rows)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
